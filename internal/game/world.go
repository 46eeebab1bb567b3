package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/pixil98/go-errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dominicmartinelli/pymud3/internal/combat"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// World is the single source of truth for all mutable game state: player
// vitals, room occupancy, door states, active events, and conversations.
// One lock guards all of it. Operations take the lock, mutate, queue
// outgoing text, then deliver the text after the lock is released so a
// slow connection can never stall the world.
type World struct {
	mu sync.RWMutex

	dict     *Dictionary
	profiles storage.Storer[*PlayerRecord]
	pub      Publisher
	combat   *combat.Manager
	dialogue Conversationalist

	players map[string]*Player       // keyed by lowercase name
	rooms   map[string]*RoomInstance // keyed by room id
	roomIds []string                 // sorted, for deterministic sweeps

	events        map[string]*ActiveEvent  // keyed by room id
	conversations map[string]*conversation // keyed by room id

	weather   string
	timeOfDay string

	startRoom string

	// notes queued under the lock, delivered by flush after release.
	notes []note
}

// note is one line of output queued under the world lock. An empty
// recipient means a world-wide broadcast.
type note struct {
	to   string // lowercase player name
	text string
}

// NewWorld instantiates every room, wires exits and door states, and
// spawns the mobiles and objects each room definition lists. The combat
// manager is wired by name only; the caller points it back at the world
// with SetArena.
func NewWorld(dict *Dictionary, profiles storage.Storer[*PlayerRecord], pub Publisher, mgr *combat.Manager, dlg Conversationalist, startRoom string) (*World, error) {
	w := &World{
		dict:          dict,
		profiles:      profiles,
		pub:           pub,
		combat:        mgr,
		dialogue:      dlg,
		players:       make(map[string]*Player),
		rooms:         make(map[string]*RoomInstance),
		events:        make(map[string]*ActiveEvent),
		conversations: make(map[string]*conversation),
		weather:       "clear",
		timeOfDay:     "day",
		startRoom:     startRoom,
	}

	for id, def := range dict.Rooms.GetAll() {
		w.rooms[id] = newRoomInstance(id, def)
		w.roomIds = append(w.roomIds, id)
	}
	sort.Strings(w.roomIds)

	for id, ri := range w.rooms {
		for dir, exit := range ri.def.Exits {
			to, ok := w.rooms[exit.Destination.Get()]
			if !ok {
				return nil, fmt.Errorf("room %s: exit %s leads to unknown room %s", id, dir, exit.Destination.Get())
			}
			re := &roomExit{direction: dir, to: to}
			if exit.Door != nil {
				re.door = &doorState{locked: exit.Door.Locked, code: exit.Door.Code}
			}
			ri.exit[dir] = re
		}

		for _, mid := range ri.def.Mobiles {
			if def := mid.Id(); def != nil {
				ri.mobs = append(ri.mobs, newMobileInstance(def))
			}
		}
		for _, oid := range ri.def.Objects {
			if def := oid.Id(); def != nil {
				ri.objects = append(ri.objects, def)
			}
		}
	}

	if _, ok := w.rooms[startRoom]; !ok {
		return nil, fmt.Errorf("start room %s does not exist", startRoom)
	}

	return w, nil
}

// run executes fn under the world lock, then delivers whatever notes fn
// queued. All command-driven operations go through it.
func (w *World) run(fn func() error) error {
	w.mu.Lock()
	err := fn()
	notes := w.notes
	w.notes = nil
	w.mu.Unlock()

	w.flush(notes)
	return err
}

// flush publishes queued notes. Delivery failures are logged, never
// surfaced: a broken connection is the session's problem, not the world's.
func (w *World) flush(notes []note) {
	for _, n := range notes {
		var err error
		if n.to == "" {
			err = w.pub.PublishToWorld([]byte(n.text + "\n"))
		} else {
			err = w.pub.PublishToPlayer(n.to, []byte(n.text+"\n"))
		}
		if err != nil {
			slog.Warn("publishing game message", "to", n.to, "error", err)
		}
	}
}

// tell queues a line for one player. Callers must hold the lock.
func (w *World) tell(p *Player, format string, args ...any) {
	w.notes = append(w.notes, note{to: strings.ToLower(p.Name), text: fmt.Sprintf(format, args...)})
}

// tellRoom queues a line for everyone in the room except the listed
// players. Callers must hold the lock.
func (w *World) tellRoom(r *RoomInstance, except []*Player, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
outer:
	for _, p := range r.players {
		for _, ex := range except {
			if p == ex {
				continue outer
			}
		}
		w.notes = append(w.notes, note{to: strings.ToLower(p.Name), text: text})
	}
}

// tellWorld queues a line for every connected player. Callers must hold
// the lock.
func (w *World) tellWorld(format string, args ...any) {
	w.notes = append(w.notes, note{text: fmt.Sprintf(format, args...)})
}

// CanonicalName normalizes a requested character name: trimmed and
// title-cased, or a generated Player#### name when the input is blank.
// Sessions subscribe to their message subject under this name before
// joining the world.
func CanonicalName(input string) string {
	name := strings.TrimSpace(input)
	if name == "" {
		return fmt.Sprintf("Player%d", rand.IntN(9000)+1000)
	}
	return cases.Title(language.English).String(strings.ToLower(name))
}

// defaultSpells every character knows. Loaded profiles are topped up so
// older saves gain spells added since.
var defaultSpells = []string{"fireball", "magic missile", "heal", "chain lightning"}

// CreateSession joins a character to the world under the given canonical
// name. A stored profile is loaded if one exists; otherwise a fresh
// level-one character is created. The name must not belong to a connected
// player.
func (w *World) CreateSession(name string) error {
	key := strings.ToLower(name)
	return w.run(func() error {
		if _, ok := w.players[key]; ok {
			return ErrNameInUse
		}

		var p *Player
		rec := w.profiles.Get(key)
		if rec != nil {
			p = playerFromRecord(rec, w.dict)
			p.Name = name
		} else {
			p = newPlayer(name)
		}

		for _, spellName := range defaultSpells {
			if _, ok := p.spellbook[spellName]; ok {
				continue
			}
			if sp, ok := w.dict.Spell(spellName); ok {
				p.spellbook[strings.ToLower(sp.Name)] = sp
			}
		}

		room := w.rooms[w.startRoom]
		if rec != nil && rec.Room != "" {
			if r, ok := w.rooms[rec.Room]; ok {
				room = r
			}
		}
		p.room = room
		room.players = append(room.players, p)
		w.players[key] = p

		w.tell(p, "Welcome, %s! You appear in %s.", p.Name, room.def.Name)
		w.tell(p, "%s", w.describeLocked(p))
		w.tell(p, "Type 'help' for commands.")
		return nil
	})
}

// DropSession removes a character from the world and persists their
// profile. Active fights drop, conversations shed the participant, and
// the file write happens outside the lock.
func (w *World) DropSession(name string) error {
	key := strings.ToLower(name)

	w.mu.Lock()
	p, ok := w.players[key]
	if !ok {
		w.mu.Unlock()
		return ErrPlayerNotFound
	}
	w.combat.DropAll(p.Name)
	if p.room != nil {
		p.room.removePlayer(p)
	}
	w.leaveConversationLocked(p)
	delete(w.players, key)
	rec := p.record(w.dict)
	notes := w.notes
	w.notes = nil
	w.mu.Unlock()

	w.flush(notes)

	if err := w.profiles.Save(key, rec); err != nil {
		return fmt.Errorf("saving profile %s: %w", key, err)
	}
	return nil
}

// SaveProfile persists a connected character's profile on demand.
func (w *World) SaveProfile(name string) error {
	key := strings.ToLower(name)

	w.mu.RLock()
	p, ok := w.players[key]
	var rec *PlayerRecord
	if ok {
		rec = p.record(w.dict)
	}
	w.mu.RUnlock()

	if !ok {
		return ErrPlayerNotFound
	}
	if err := w.profiles.Save(key, rec); err != nil {
		return fmt.Errorf("saving profile %s: %w", key, err)
	}
	w.flush([]note{{to: key, text: "Game saved successfully."}})
	return nil
}

// SaveAll persists every connected character. Runs as the periodic
// autosave so a crash loses at most one interval of progress.
func (w *World) SaveAll() error {
	w.mu.RLock()
	recs := make(map[string]*PlayerRecord, len(w.players))
	for key, p := range w.players {
		recs[key] = p.record(w.dict)
	}
	w.mu.RUnlock()

	el := errors.NewErrorList()
	for key, rec := range recs {
		if err := w.profiles.Save(key, rec); err != nil {
			el.Add(fmt.Errorf("saving profile %s: %w", key, err))
		}
	}
	return el.Err()
}

// Who lists the connected players.
func (w *World) Who(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(w.players))
		for _, o := range w.players {
			names = append(names, o.Name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("Players Online:")
		for _, n := range names {
			b.WriteString("\n- " + n)
		}
		w.tell(p, "%s", b.String())
		return nil
	})
}

// Chat broadcasts a global chat line to everyone, the sender included.
func (w *World) Chat(name, message string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		w.tellWorld("[CHAT] %s: %s", p.Name, message)
		return nil
	})
}

// playerLocked resolves a connected player by name. Callers must hold the
// lock.
func (w *World) playerLocked(name string) (*Player, error) {
	p, ok := w.players[strings.ToLower(name)]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// resolveEntityLocked finds a combatant anywhere in the world: players by
// exact character name, then mobiles by exact short description or keyword,
// in room id order. Callers must hold the lock.
func (w *World) resolveEntityLocked(name string) (Entity, *RoomInstance) {
	key := strings.ToLower(name)
	if p, ok := w.players[key]; ok {
		return p, p.room
	}
	for _, id := range w.roomIds {
		for _, m := range w.rooms[id].mobs {
			if strings.ToLower(m.def.ShortDesc) == key || m.def.Matches(key) {
				return m, w.rooms[id]
			}
		}
	}
	return nil, nil
}

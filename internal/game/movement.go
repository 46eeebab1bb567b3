package game

import (
	"fmt"
	"strings"

	"github.com/dominicmartinelli/pymud3/internal/display"
)

// describeLocked renders the full room description block the way it is
// shown on arrival and on look: header, conditions, exits, then everything
// standing in the room. Callers must hold the lock.
func (w *World) describeLocked(p *Player) string {
	r := p.room

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s", r.def.Name)
	fmt.Fprintf(&b, "\nWeather: %s", display.Capitalize(w.weather))
	fmt.Fprintf(&b, "\nTime: %s", display.Capitalize(w.timeOfDay))
	if w.timeOfDay == "night" {
		b.WriteString("\nIt's dark. You might need a light source.")
	}
	fmt.Fprintf(&b, "\n%s", r.def.Description)

	var exits []string
	for _, dir := range directions {
		ex, ok := r.exit[dir]
		if !ok {
			continue
		}
		if ex.door != nil && !ex.door.open {
			exits = append(exits, dir+" (closed door)")
		} else {
			exits = append(exits, dir)
		}
	}
	if len(exits) > 0 {
		fmt.Fprintf(&b, "\nExits: %s", strings.Join(exits, ", "))
	} else {
		b.WriteString("\nNo obvious exits.")
	}

	for _, m := range r.mobs {
		fmt.Fprintf(&b, "\nYou see %s here.", m.def.ShortDesc)
	}
	for _, o := range r.players {
		if o != p {
			fmt.Fprintf(&b, "\nYou see %s here.", o.Name)
		}
	}
	for _, obj := range r.objects {
		fmt.Fprintf(&b, "\nYou see %s here.", obj.ShortDesc)
	}

	if p.companion != nil {
		fmt.Fprintf(&b, "\nYour companion %s is here.", p.companion.Name)
	}
	if p.pet != nil {
		fmt.Fprintf(&b, "\nYour pet %s is here.", p.pet.Name)
	}

	if ev, ok := w.events[r.id]; ok {
		b.WriteString("\n" + ev.roomLine())
	}
	return b.String()
}

// Look re-describes the player's current room.
func (w *World) Look(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		w.tell(p, "%s", w.describeLocked(p))
		return nil
	})
}

// Move walks a player through an exit. Closed or locked doors block the
// way; pets and companions follow automatically.
func (w *World) Move(name, direction string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		if p.resting {
			w.tell(p, "You need to stand up before you can move.")
			return nil
		}

		ex, ok := p.room.exit[direction]
		if !ok {
			w.tell(p, "You can't go that way.")
			return nil
		}
		if ex.door != nil {
			if !ex.door.open {
				w.tell(p, "The door is closed.")
				return nil
			}
			if ex.door.locked {
				w.tell(p, "The door is locked.")
				return nil
			}
		}

		p.room.removePlayer(p)
		p.room = ex.to
		ex.to.players = append(ex.to.players, p)

		w.tell(p, "\nYou move %s to %s.", direction, ex.to.def.Name)
		w.tell(p, "%s", w.describeLocked(p))
		return nil
	})
}

// Teleport jumps a player straight to a room by id, or by the first room
// whose name contains the given text.
func (w *World) Teleport(name, where string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		if p.resting {
			w.tell(p, "You need to stand up before you can teleport.")
			return nil
		}

		if r, ok := w.rooms[where]; ok {
			w.teleportToLocked(p, r)
			return nil
		}

		needle := strings.ToLower(where)
		for _, id := range w.roomIds {
			if strings.Contains(strings.ToLower(w.rooms[id].def.Name), needle) {
				w.teleportToLocked(p, w.rooms[id])
				return nil
			}
		}
		w.tell(p, "No room with that name exists.")
		return nil
	})
}

func (w *World) teleportToLocked(p *Player, r *RoomInstance) {
	p.room.removePlayer(p)
	p.room = r
	r.players = append(r.players, p)
	w.tell(p, "You teleport to %s.", r.def.Name)
	w.tell(p, "%s", w.describeLocked(p))
}

// OpenDoor opens a closed, unlocked door.
func (w *World) OpenDoor(name, direction string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		ex, ok := p.room.exit[direction]
		if !ok {
			w.tell(p, "You can't open that.")
			return nil
		}
		switch {
		case ex.door == nil:
			w.tell(p, "There is no door in that direction.")
		case ex.door.open:
			w.tell(p, "The door is already open.")
		case ex.door.locked:
			w.tell(p, "The door is locked. You need to unlock it first.")
		default:
			ex.door.open = true
			w.tell(p, "You open the door.")
		}
		return nil
	})
}

// CloseDoor closes an open door.
func (w *World) CloseDoor(name, direction string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		ex, ok := p.room.exit[direction]
		if !ok {
			w.tell(p, "You can't close that.")
			return nil
		}
		switch {
		case ex.door == nil:
			w.tell(p, "There is no door in that direction.")
		case !ex.door.open:
			w.tell(p, "The door is already closed.")
		default:
			ex.door.open = false
			w.tell(p, "You close the door.")
		}
		return nil
	})
}

// UnlockDoor unlocks a locked door. Doors with a secret code unlock only
// when the given code matches; doors without one unlock freely.
func (w *World) UnlockDoor(name, direction, code string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		ex, ok := p.room.exit[direction]
		if !ok {
			w.tell(p, "There is no door in that direction.")
			return nil
		}
		switch {
		case ex.door == nil || !ex.door.locked:
			w.tell(p, "The door is not locked.")
		case ex.door.code == "":
			ex.door.locked = false
			w.tell(p, "You unlock the door.")
		case code == ex.door.code:
			ex.door.locked = false
			w.tell(p, "You have unlocked the door.")
		default:
			w.tell(p, "Incorrect code. The door remains locked.")
		}
		return nil
	})
}

// Enter steps into something in the player's room. Only portals can be
// entered: bare enter works when a portal event is active, and naming
// anything other than a portal is refused.
func (w *World) Enter(name, target string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if target != "" && !strings.Contains(strings.ToLower(target), "portal") {
			w.tell(p, "You can't enter %s.", target)
			return nil
		}

		ev, ok := w.events[p.room.id]
		if !ok || ev.kind != eventPortal {
			if target == "" {
				w.tell(p, "Enter what? There's nothing here to enter.")
			} else {
				w.tell(p, "There's no portal here to enter.")
			}
			return nil
		}
		dest, ok := w.rooms[ev.portalTo]
		if !ok {
			w.tell(p, "The portal leads nowhere... something went wrong!")
			return nil
		}

		old := p.room
		old.removePlayer(p)
		w.tellRoom(old, nil, "⚡ %s steps into the portal and vanishes! ⚡", p.Name)
		w.tell(p, "⚡ You step through the %s portal... ⚡", ev.portalColor)
		w.tell(p, "You feel a rush of magical energy as you're transported!")

		p.room = dest
		dest.players = append(dest.players, p)
		w.tell(p, "%s", w.describeLocked(p))
		w.tellRoom(dest, []*Player{p}, "⚡ %s emerges from a shimmering portal! ⚡", p.Name)
		return nil
	})
}

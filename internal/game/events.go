package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

// Event lifetimes and the per-tick odds of the world shifting.
const (
	portalDurationMin   = 120 * time.Second
	portalDurationMax   = 300 * time.Second
	invasionDurationMin = 300 * time.Second
	invasionDurationMax = 600 * time.Second
	merchantDuration    = 300 * time.Second

	eventSpawnChance  = 0.1
	weatherShiftOdds  = 0.1
	dayNightFlipOdds  = 0.05
	merchantStockMin  = 2
	merchantStockMax  = 4
	invasionRewardMul = 1.5
)

var weatherConditions = []string{"clear", "rainy", "foggy", "stormy"}

var portalColors = []string{"shimmering blue", "crackling purple", "golden", "silver", "emerald green"}

var merchantNames = []string{"Mysterious Trader", "Wandering Merchant", "Exotic Vendor", "Traveling Salesman", "Mystic Peddler"}

type eventKind int

const (
	eventPortal eventKind = iota
	eventMerchant
	eventInvasion
)

// ActiveEvent is one transient happening bound to a room: a portal to
// somewhere else, a traveling merchant, or a monster invasion. Each room
// holds at most one.
type ActiveEvent struct {
	kind eventKind
	ends time.Time

	portalTo    string
	portalColor string

	merchantName string
	stock        []*Object

	invasionName string
	spawns       []*MobileInstance
}

// roomLine is the event's line in the room description.
func (ev *ActiveEvent) roomLine() string {
	switch ev.kind {
	case eventPortal:
		return fmt.Sprintf("⚡ A %s portal swirls mysteriously here! ⚡", ev.portalColor)
	case eventMerchant:
		return fmt.Sprintf("🚚 %s has set up shop here with exotic wares! 🚚", ev.merchantName)
	case eventInvasion:
		return fmt.Sprintf("🗡️ This area is under attack by %s! 🗡️", ev.invasionName)
	}
	return ""
}

// invasionKind is one entry of the invasion bestiary. The count range is
// multiplied by the rolled intensity.
type invasionKind struct {
	name        string
	keywords    []string
	shortDesc   string
	longDesc    string
	description string
	level       int
	hp          int
	countMin    int
	countMax    int
}

var invasionKinds = []invasionKind{
	{
		name:        "Shadow Wraiths",
		keywords:    []string{"shadow", "wraith", "wraiths"},
		shortDesc:   "a shadow wraith",
		longDesc:    "A shadow wraith hovers here menacingly.",
		description: "This ghostly figure seems to be made of pure darkness and malevolence.",
		level:       8,
		hp:          60,
		countMin:    2,
		countMax:    4,
	},
	{
		name:        "Goblin Raiders",
		keywords:    []string{"goblin", "raider", "raiders"},
		shortDesc:   "a goblin raider",
		longDesc:    "A fierce goblin raider stands here, weapons drawn.",
		description: "This small but vicious creature carries crude but deadly weapons.",
		level:       5,
		hp:          40,
		countMin:    3,
		countMax:    5,
	},
	{
		name:        "Orc Warband",
		keywords:    []string{"orc", "warrior", "warband"},
		shortDesc:   "an orc warrior",
		longDesc:    "A brutal orc warrior stands ready for battle.",
		description: "This massive green-skinned brute is covered in scars and armor.",
		level:       7,
		hp:          80,
		countMin:    2,
		countMax:    3,
	},
	{
		name:        "Undead Horde",
		keywords:    []string{"undead", "zombie", "skeleton"},
		shortDesc:   "a shambling undead",
		longDesc:    "A rotting undead creature stumbles about here.",
		description: "This once-living being now serves as a mindless puppet of dark magic.",
		level:       6,
		hp:          50,
		countMin:    3,
		countMax:    6,
	},
}

// spawn builds one invader. Invaders carry a flat health pool from the
// bestiary rather than the usual level-derived one, hit harder than
// ordinary mobiles of their level, and pay bonus experience.
func (k invasionKind) spawn() *MobileInstance {
	def := &Mobile{
		Keywords:    k.keywords,
		ShortDesc:   k.shortDesc,
		LongDesc:    k.longDesc,
		Description: k.description,
		Level:       k.level,
	}
	m := newMobileInstance(def)
	m.hp = k.hp
	m.maxHP = k.hp
	m.attack = k.level * 3
	m.defense = k.level * 2
	m.xpMultiplier = invasionRewardMul
	return m
}

func randomDuration(min, max time.Duration) time.Duration {
	return min + time.Duration(rand.Int64N(int64(max-min)+1))
}

// EventsTick expires ended events, occasionally starts a new one, and
// rolls the weather and the day/night cycle. Runs every 30 seconds.
func (w *World) EventsTick() error {
	return w.run(func() error {
		w.expireEventsLocked(time.Now())

		if rand.Float64() < eventSpawnChance {
			w.spawnRandomEventLocked()
		}

		if rand.Float64() < weatherShiftOdds {
			w.weather = weatherConditions[rand.IntN(len(weatherConditions))]
		}
		if rand.Float64() < dayNightFlipOdds {
			if w.timeOfDay == "day" {
				w.timeOfDay = "night"
			} else {
				w.timeOfDay = "day"
			}
		}
		return nil
	})
}

// expireEventsLocked removes events past their deadline, pulling any
// surviving invasion spawns out of the room with them.
func (w *World) expireEventsLocked(now time.Time) {
	for _, id := range w.roomIds {
		ev, ok := w.events[id]
		if !ok || now.Before(ev.ends) {
			continue
		}
		delete(w.events, id)

		r := w.rooms[id]
		switch ev.kind {
		case eventPortal:
			w.tellRoom(r, nil, "⚡ The portal shimmers and fades away. ⚡")
		case eventInvasion:
			for _, m := range ev.spawns {
				r.removeMob(m)
			}
			w.tellRoom(r, nil, "🗡️ The %s retreat from this area. 🗡️", ev.invasionName)
		case eventMerchant:
			w.tellRoom(r, nil, "🚚 %s packs up and leaves. 🚚", ev.merchantName)
		}
	}
}

// spawnRandomEventLocked starts one weighted event: portal storm 30%,
// invasion 20%, merchant 50%.
func (w *World) spawnRandomEventLocked() {
	roll := rand.Float64()
	switch {
	case roll < 0.3:
		w.spawnPortalStormLocked()
	case roll < 0.5:
		w.spawnInvasionLocked()
	default:
		w.spawnMerchantLocked(w.randomFreeRoomLocked())
	}
}

// randomFreeRoomLocked picks a room with no active event.
func (w *World) randomFreeRoomLocked() *RoomInstance {
	free := make([]string, 0, len(w.roomIds))
	for _, id := range w.roomIds {
		if _, ok := w.events[id]; !ok {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return nil
	}
	return w.rooms[free[rand.IntN(len(free))]]
}

// spawnPortalStormLocked links up to three pairs of rooms with
// bidirectional portals sharing a color and expiry. Pairs that would
// land on a room with an event are skipped.
func (w *World) spawnPortalStormLocked() {
	if len(w.roomIds) < 2 {
		return
	}

	pairs := rand.IntN(3) + 1
	for i := 0; i < pairs; i++ {
		a := w.roomIds[rand.IntN(len(w.roomIds))]
		b := w.roomIds[rand.IntN(len(w.roomIds))]
		if a == b {
			continue
		}
		if _, busy := w.events[a]; busy {
			continue
		}
		if _, busy := w.events[b]; busy {
			continue
		}

		color := portalColors[rand.IntN(len(portalColors))]
		ends := time.Now().Add(randomDuration(portalDurationMin, portalDurationMax))
		w.events[a] = &ActiveEvent{kind: eventPortal, ends: ends, portalTo: b, portalColor: color}
		w.events[b] = &ActiveEvent{kind: eventPortal, ends: ends, portalTo: a, portalColor: color}

		w.tellRoom(w.rooms[a], nil, "⚡ A %s portal suddenly opens here! ⚡", color)
		w.tellRoom(w.rooms[b], nil, "⚡ A %s portal suddenly opens here! ⚡", color)
	}
}

// spawnInvasionLocked floods a random event-free room with invaders and
// re-describes the room for anyone standing in it.
func (w *World) spawnInvasionLocked() {
	r := w.randomFreeRoomLocked()
	if r == nil {
		return
	}

	kind := invasionKinds[rand.IntN(len(invasionKinds))]
	intensity := rand.IntN(3) + 1
	count := (kind.countMin + rand.IntN(kind.countMax-kind.countMin+1)) * intensity

	ev := &ActiveEvent{
		kind:         eventInvasion,
		ends:         time.Now().Add(randomDuration(invasionDurationMin, invasionDurationMax)),
		invasionName: kind.name,
	}
	for i := 0; i < count; i++ {
		m := kind.spawn()
		r.mobs = append(r.mobs, m)
		ev.spawns = append(ev.spawns, m)
	}
	w.events[r.id] = ev

	w.tellRoom(r, nil, "🗡️ This area is under attack by %s! 🗡️", kind.name)
	w.tellRoom(r, nil, "You see %d hostile creatures materializing!", count)
	for _, p := range r.players {
		w.tell(p, "%s", w.describeLocked(p))
	}
}

// spawnMerchantLocked opens a traveling merchant's shop in the room with
// a fresh sample of wares.
func (w *World) spawnMerchantLocked(r *RoomInstance) {
	if r == nil {
		return
	}

	ev := &ActiveEvent{
		kind:         eventMerchant,
		ends:         time.Now().Add(merchantDuration),
		merchantName: merchantNames[rand.IntN(len(merchantNames))],
		stock:        w.merchantStockLocked(),
	}
	w.events[r.id] = ev

	w.tellRoom(r, nil, "🚚 %s has set up shop here with exotic wares! 🚚", ev.merchantName)
	w.tellRoom(r, nil, "Type 'list' to see what they're selling!")
}

// merchantStockLocked samples a few object definitions for a merchant to
// carry.
func (w *World) merchantStockLocked() []*Object {
	all := w.dict.Objects.GetAll()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	want := merchantStockMin + rand.IntN(merchantStockMax-merchantStockMin+1)
	var stock []*Object
	for _, idx := range rand.Perm(len(ids)) {
		stock = append(stock, all[ids[idx]])
		if len(stock) == want {
			break
		}
	}
	return stock
}

// SpawnMerchant starts a merchant event in the player's current room.
// Backs the admin debug command.
func (w *World) SpawnMerchant(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		w.spawnMerchantLocked(p.room)
		w.tell(p, "Merchant event spawned!")
		return nil
	})
}

// SpawnInvasion starts a monster invasion in a random event-free room.
// Backs the admin debug command.
func (w *World) SpawnInvasion(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		w.spawnInvasionLocked()
		w.tell(p, "Monster invasion triggered!")
		return nil
	})
}

package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// ScheduleEntry sends an NPC to a room at a given world hour.
type ScheduleEntry struct {
	Hour int                            `json:"hour"`
	Room storage.SmartIdentifier[*Room] `json:"room"`
}

// Mobile defines a kind of creature loaded from asset files. Hostile
// definitions feed combat; NPC definitions carry the persona fields the
// dialogue collaborator builds prompts from.
type Mobile struct {
	// Keywords are the names players can target this mobile by.
	Keywords []string `json:"keywords"`

	// ShortDesc is used in action messages (e.g. "a cave goblin").
	ShortDesc string `json:"short_desc"`

	// LongDesc is shown when the mobile idles in a room.
	LongDesc string `json:"long_desc"`

	// Description is the fallback persona context when Personality is empty.
	Description string `json:"description"`

	Level int `json:"level"`

	// IsNpc marks conversational, non-attackable occupants.
	IsNpc bool `json:"is_npc,omitempty"`

	// Tameable creatures can be claimed as pets once weakened.
	Tameable bool `json:"tameable,omitempty"`

	// Persona fields for the dialogue collaborator.
	Personality string `json:"personality,omitempty"`
	Background  string `json:"background,omitempty"`
	Secrets     string `json:"secrets,omitempty"`

	// Schedule moves an NPC between rooms as world hours pass.
	Schedule []ScheduleEntry `json:"schedule,omitempty"`

	// Inventory is what a vendor NPC offers for sale.
	Inventory []storage.SmartIdentifier[*Object] `json:"inventory,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Matches reports whether name targets this mobile, by keyword or by
// short description.
func (m *Mobile) Matches(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range m.Keywords {
		if strings.Contains(strings.ToLower(kw), n) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(m.ShortDesc), n)
}

// Resolve resolves foreign keys from the dictionary.
func (m *Mobile) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	for i := range m.Inventory {
		el.Add(m.Inventory[i].Resolve(dict.Objects))
	}
	for i := range m.Schedule {
		el.Add(m.Schedule[i].Room.Resolve(dict.Rooms))
	}
	return el.Err()
}

// Validate satisfies storage.ValidatingSpec
func (m *Mobile) Validate() error {
	el := errors.NewErrorList()
	if len(m.Keywords) < 1 {
		el.Add(fmt.Errorf("mobile keyword is required"))
	}
	if m.ShortDesc == "" {
		el.Add(fmt.Errorf("mobile short description is required"))
	}
	if m.Level < 1 {
		el.Add(fmt.Errorf("mobile level must be at least 1"))
	}
	for i, s := range m.Schedule {
		if s.Hour < 0 || s.Hour > 23 {
			el.Add(fmt.Errorf("schedule entry %d: hour %d out of range", i, s.Hour))
		}
		if s.Room.Get() == "" {
			el.Add(fmt.Errorf("schedule entry %d: room is required", i))
		}
	}
	return el.Err()
}

// MobileInstance is a live creature spawned from a Mobile definition.
// Invasion spawns carry an experience multiplier; everything else pays the
// base award.
type MobileInstance struct {
	vitals
	def *Mobile

	// stock is a vendor's live inventory; sales and purchases mutate it.
	stock []*Object

	// xpMultiplier scales the experience award. Invasion spawns pay extra.
	xpMultiplier float64
}

// newMobileInstance spawns a creature with the derived stats of its level:
// ten health per level, attack and defense of twice the level.
func newMobileInstance(def *Mobile) *MobileInstance {
	m := &MobileInstance{
		def: def,
		vitals: vitals{
			level:   def.Level,
			hp:      def.Level * 10,
			maxHP:   def.Level * 10,
			attack:  def.Level * 2,
			defense: def.Level * 2,
		},
	}
	for _, oid := range def.Inventory {
		if obj := oid.Id(); obj != nil {
			m.stock = append(m.stock, obj)
		}
	}
	return m
}

func (m *MobileInstance) DisplayName() string { return m.def.ShortDesc }

// Hostile reports whether the creature can be attacked.
func (m *MobileInstance) Hostile() bool { return !m.def.IsNpc }

// Matches reports whether name targets this creature.
func (m *MobileInstance) Matches(name string) bool { return m.def.Matches(name) }

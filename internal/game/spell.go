package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// SpellType decides how a cast resolves.
type SpellType int

const (
	SpellTypeUnknown SpellType = iota
	SpellTypeOffensive
	SpellTypeAreaOffensive
	SpellTypeHealing
)

// Spell defines a castable spell loaded from asset files. Damage and heal
// rolls are uniform over [min, max] then scaled by the multiplier.
type Spell struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManaCost    int    `json:"mana_cost"`

	// TypeStr is one of offensive, area_offensive, healing.
	TypeStr string `json:"spell_type"`

	RequiresTarget bool `json:"requires_target"`

	DamageMultiplier int    `json:"damage_multiplier,omitempty"`
	BaseDamage       [2]int `json:"base_damage,omitempty"`
	HealMultiplier   int    `json:"heal_multiplier,omitempty"`
	BaseHeal         [2]int `json:"base_heal,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Type returns the parsed SpellType from TypeStr.
func (s *Spell) Type() SpellType {
	switch strings.ToLower(s.TypeStr) {
	case "offensive":
		return SpellTypeOffensive
	case "area_offensive":
		return SpellTypeAreaOffensive
	case "healing":
		return SpellTypeHealing
	default:
		return SpellTypeUnknown
	}
}

// DamageRange returns the damage roll bounds, defaulting to 1d6.
func (s *Spell) DamageRange() (int, int) {
	if s.BaseDamage[1] < s.BaseDamage[0] || s.BaseDamage[1] == 0 {
		return 1, 6
	}
	return s.BaseDamage[0], s.BaseDamage[1]
}

// HealRange returns the heal roll bounds, defaulting to 5-15.
func (s *Spell) HealRange() (int, int) {
	if s.BaseHeal[1] < s.BaseHeal[0] || s.BaseHeal[1] == 0 {
		return 5, 15
	}
	return s.BaseHeal[0], s.BaseHeal[1]
}

// Multiplier returns the damage or heal multiplier, defaulting to 1.
func (s *Spell) Multiplier() int {
	var m int
	if s.Type() == SpellTypeHealing {
		m = s.HealMultiplier
	} else {
		m = s.DamageMultiplier
	}
	if m < 1 {
		return 1
	}
	return m
}

// MatchesName reports whether input names this spell, by exact name,
// substring, or word prefix.
func (s *Spell) MatchesName(input string) bool {
	in := strings.ToLower(input)
	name := strings.ToLower(s.Name)
	if in == name || strings.Contains(name, in) {
		return true
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, in) {
			return true
		}
	}
	return false
}

// Validate satisfies storage.ValidatingSpec
func (s *Spell) Validate() error {
	el := errors.NewErrorList()
	if s.Name == "" {
		el.Add(fmt.Errorf("spell name is required"))
	}
	if s.ManaCost < 0 {
		el.Add(fmt.Errorf("spell mana cost cannot be negative"))
	}
	if s.TypeStr == "" {
		el.Add(fmt.Errorf("spell type is required"))
	} else if s.Type() == SpellTypeUnknown {
		el.Add(fmt.Errorf("spell type %q is invalid", s.TypeStr))
	}
	return el.Err()
}

package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// Attribute points a fresh character starts with, and the gold in their
// pocket.
const (
	defaultAttribute = 5
	defaultGold      = 100
)

// equipSlots in display order.
var equipSlots = []string{"weapon", "armor", "shield", "helmet", "boots", "gloves", "ring", "amulet"}

// Player is a live character attached to a session. Fields are guarded by
// the world lock; everything outside this package goes through named World
// operations.
type Player struct {
	vitals
	Name string

	strength     int
	agility      int
	intelligence int
	vitality     int
	skillPoints  int

	mana    int
	maxMana int

	experience int
	gold       int
	resting    bool

	inventory []*Object
	equipment map[string]*Object
	spellbook map[string]*Spell

	pet       *Pet
	companion *Companion

	room *RoomInstance
}

func (p *Player) DisplayName() string { return p.Name }

// newPlayer builds a level-one character with default attributes.
func newPlayer(name string) *Player {
	p := &Player{
		Name:         name,
		strength:     defaultAttribute,
		agility:      defaultAttribute,
		intelligence: defaultAttribute,
		vitality:     defaultAttribute,
		gold:         defaultGold,
		equipment:    make(map[string]*Object),
		spellbook:    make(map[string]*Spell),
	}
	p.level = 1
	p.recalcStats()
	p.hp = p.maxHP
	p.mana = p.maxMana
	return p
}

// recalcStats rederives attack, defense, and the health and mana caps from
// attributes plus worn equipment. Current health and mana are clamped to
// the new caps.
func (p *Player) recalcStats() {
	p.attack = p.strength * 20
	p.defense = int(float64(p.agility) * 1.5)
	p.maxHP = p.vitality * 10
	p.maxMana = p.intelligence * 15

	for _, item := range p.equipment {
		if item == nil {
			continue
		}
		p.attack += item.Effects.Attack
		p.defense += item.Effects.Defense
		p.maxHP += item.Effects.HP
		p.maxMana += item.Effects.Mana
	}

	if p.hp > p.maxHP {
		p.hp = p.maxHP
	}
	if p.mana > p.maxMana {
		p.mana = p.maxMana
	}
}

// restore refills health and mana to their caps.
func (p *Player) restore() {
	p.hp = p.maxHP
	p.mana = p.maxMana
}

// findCarried returns the first inventory item the keyword targets.
func (p *Player) findCarried(keyword string) (int, *Object) {
	for i, item := range p.inventory {
		if item.Matches(keyword) {
			return i, item
		}
	}
	return -1, nil
}

// findSpell resolves input against the spellbook: exact name first, then
// substring or word-prefix matches.
func (p *Player) findSpell(input string) *Spell {
	in := strings.ToLower(input)
	if sp, ok := p.spellbook[in]; ok {
		return sp
	}
	names := make([]string, 0, len(p.spellbook))
	for name := range p.spellbook {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p.spellbook[name].MatchesName(in) {
			return p.spellbook[name]
		}
	}
	return nil
}

// PetRecord persists a tamed pet across sessions.
type PetRecord struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

// CompanionRecord persists a companion across sessions.
type CompanionRecord struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

// PlayerRecord is the stored shape of a character. Inventory, equipment,
// and the spellbook persist as asset identifiers and resolve against the
// dictionary at load.
type PlayerRecord struct {
	Name         string `json:"name"`
	Level        int    `json:"level"`
	Experience   int    `json:"experience"`
	HP           int    `json:"hit_points"`
	MaxHP        int    `json:"max_hit_points"`
	Mana         int    `json:"mana"`
	MaxMana      int    `json:"max_mana"`
	Strength     int    `json:"strength"`
	Agility      int    `json:"agility"`
	Intelligence int    `json:"intelligence"`
	Vitality     int    `json:"vitality"`
	SkillPoints  int    `json:"skill_points"`
	Gold         int    `json:"gold"`

	Room      string            `json:"current_room"`
	Inventory []string          `json:"inventory,omitempty"`
	Equipment map[string]string `json:"equipment,omitempty"`
	Spellbook []string          `json:"spellbook,omitempty"`

	Pet       *PetRecord       `json:"pet,omitempty"`
	Companion *CompanionRecord `json:"companion,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (r *PlayerRecord) Validate() error {
	el := errors.NewErrorList()
	if r.Name == "" {
		el.Add(fmt.Errorf("player name is required"))
	}
	if r.Level < 1 {
		el.Add(fmt.Errorf("player level must be at least 1"))
	}
	for slot := range r.Equipment {
		valid := false
		for _, s := range equipSlots {
			if s == slot {
				valid = true
				break
			}
		}
		if !valid {
			el.Add(fmt.Errorf("equipment slot %q is invalid", slot))
		}
	}
	return el.Err()
}

// record snapshots the live character into its stored shape. Identifiers
// for carried items come from the dictionary's reverse index.
func (p *Player) record(dict *Dictionary) *PlayerRecord {
	rec := &PlayerRecord{
		Name:         p.Name,
		Level:        p.level,
		Experience:   p.experience,
		HP:           p.hp,
		MaxHP:        p.maxHP,
		Mana:         p.mana,
		MaxMana:      p.maxMana,
		Strength:     p.strength,
		Agility:      p.agility,
		Intelligence: p.intelligence,
		Vitality:     p.vitality,
		SkillPoints:  p.skillPoints,
		Gold:         p.gold,
	}
	if p.room != nil {
		rec.Room = p.room.id
	}
	for _, item := range p.inventory {
		if id, ok := dict.ObjectId(item); ok {
			rec.Inventory = append(rec.Inventory, id)
		}
	}
	for slot, item := range p.equipment {
		if item == nil {
			continue
		}
		if id, ok := dict.ObjectId(item); ok {
			if rec.Equipment == nil {
				rec.Equipment = make(map[string]string)
			}
			rec.Equipment[slot] = id
		}
	}
	for name := range p.spellbook {
		rec.Spellbook = append(rec.Spellbook, name)
	}
	sort.Strings(rec.Spellbook)
	if p.pet != nil {
		rec.Pet = &PetRecord{Name: p.pet.Name, HP: p.pet.hp}
	}
	if p.companion != nil {
		rec.Companion = &CompanionRecord{Name: p.companion.Name, HP: p.companion.hp}
	}
	return rec
}

// playerFromRecord rebuilds a live character from its stored shape.
// Unknown item or spell identifiers are skipped; loaded health is clamped
// to (0, max].
func playerFromRecord(rec *PlayerRecord, dict *Dictionary) *Player {
	p := &Player{
		Name:         rec.Name,
		strength:     rec.Strength,
		agility:      rec.Agility,
		intelligence: rec.Intelligence,
		vitality:     rec.Vitality,
		skillPoints:  rec.SkillPoints,
		experience:   rec.Experience,
		gold:         rec.Gold,
		equipment:    make(map[string]*Object),
		spellbook:    make(map[string]*Spell),
	}
	p.level = rec.Level
	if p.level < 1 {
		p.level = 1
	}
	if p.strength < 1 {
		p.strength = defaultAttribute
	}
	if p.agility < 1 {
		p.agility = defaultAttribute
	}
	if p.intelligence < 1 {
		p.intelligence = defaultAttribute
	}
	if p.vitality < 1 {
		p.vitality = defaultAttribute
	}

	for _, id := range rec.Inventory {
		if def, ok := dict.Object(id); ok {
			p.inventory = append(p.inventory, def)
		}
	}
	for slot, id := range rec.Equipment {
		if def, ok := dict.Object(id); ok {
			p.equipment[slot] = def
		}
	}
	for _, name := range rec.Spellbook {
		if sp, ok := dict.Spell(name); ok {
			p.spellbook[strings.ToLower(sp.Name)] = sp
		}
	}
	if rec.Pet != nil {
		p.pet = NewPet(rec.Pet.Name)
		if rec.Pet.HP > 0 && rec.Pet.HP < p.pet.maxHP {
			p.pet.hp = rec.Pet.HP
		}
	}
	if rec.Companion != nil {
		p.companion = NewCompanion(rec.Companion.Name)
		if rec.Companion.HP > 0 && rec.Companion.HP < p.companion.maxHP {
			p.companion.hp = rec.Companion.HP
		}
	}

	p.recalcStats()
	p.mana = rec.Mana
	if p.mana > p.maxMana {
		p.mana = p.maxMana
	}
	if p.mana < 0 {
		p.mana = 0
	}
	p.hp = rec.HP
	if p.hp > p.maxHP {
		p.hp = p.maxHP
	}
	if p.hp < 1 {
		p.hp = 1
	}
	return p
}

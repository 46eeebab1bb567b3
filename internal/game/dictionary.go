package game

import (
	"fmt"
	"strings"

	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// Dictionary holds all game definition stores. It provides a single
// reference that can be passed to resolution methods so they all
// share the same signature.
type Dictionary struct {
	Rooms   storage.Storer[*Room]
	Mobiles storage.Storer[*Mobile]
	Npcs    storage.Storer[*Mobile]
	Objects storage.Storer[*Object]
	Spells  storage.Storer[*Spell]

	// objectIds maps shared object definitions back to their asset ids so
	// carried items can persist as identifiers.
	objectIds map[*Object]string
}

// Resolve resolves all foreign key references and builds the reverse
// object index. Player records resolve at login instead.
func (d *Dictionary) Resolve() error {
	for id, mob := range d.Mobiles.GetAll() {
		if err := mob.Resolve(d); err != nil {
			return fmt.Errorf("mobile %s: %w", id, err)
		}
	}

	for id, npc := range d.Npcs.GetAll() {
		if err := npc.Resolve(d); err != nil {
			return fmt.Errorf("npc %s: %w", id, err)
		}
	}

	for id, room := range d.Rooms.GetAll() {
		if err := room.Resolve(d); err != nil {
			return fmt.Errorf("room %s: %w", id, err)
		}
	}

	d.objectIds = make(map[*Object]string)
	for id, obj := range d.Objects.GetAll() {
		d.objectIds[obj] = id
	}
	return nil
}

// Resolve on rooms wires exit destinations and reset lists.
func (r *Room) Resolve(dict *Dictionary) error {
	for dir := range r.Exits {
		if err := r.Exits[dir].Destination.Resolve(dict.Rooms); err != nil {
			return fmt.Errorf("exit %s: %w", dir, err)
		}
	}
	for i := range r.Mobiles {
		if err := r.Mobiles[i].Resolve(dict.Mobiles); err != nil {
			if e2 := r.Mobiles[i].Resolve(dict.Npcs); e2 != nil {
				return err
			}
		}
	}
	for i := range r.Objects {
		if err := r.Objects[i].Resolve(dict.Objects); err != nil {
			return err
		}
	}
	return nil
}

// Object returns the object definition with the given id.
func (d *Dictionary) Object(id string) (*Object, bool) {
	obj := d.Objects.Get(id)
	return obj, obj != nil
}

// ObjectId returns the asset id of a shared object definition.
func (d *Dictionary) ObjectId(obj *Object) (string, bool) {
	id, ok := d.objectIds[obj]
	return id, ok
}

// Spell returns the spell whose asset id or name matches, case-insensitively.
func (d *Dictionary) Spell(name string) (*Spell, bool) {
	if sp := d.Spells.Get(strings.ToLower(name)); sp != nil {
		return sp, true
	}
	for _, sp := range d.Spells.GetAll() {
		if strings.EqualFold(sp.Name, name) {
			return sp, true
		}
	}
	return nil, false
}

// FindMobile returns the first mobile or NPC definition the keyword
// matches, preferring hostile definitions.
func (d *Dictionary) FindMobile(keyword string) *Mobile {
	for _, m := range d.Mobiles.GetAll() {
		if m.Matches(keyword) {
			return m
		}
	}
	for _, m := range d.Npcs.GetAll() {
		if m.Matches(keyword) {
			return m
		}
	}
	return nil
}

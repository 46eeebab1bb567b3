package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// ObjectType categorizes an object. The type decides whether it can be
// equipped, quaffed, or only carried, and what a merchant charges for it.
type ObjectType int

const (
	ObjectTypeUnknown ObjectType = iota
	ObjectTypeWeapon
	ObjectTypeArmor
	ObjectTypeShield
	ObjectTypeHelmet
	ObjectTypeBoots
	ObjectTypeGloves
	ObjectTypeRing
	ObjectTypeAmulet
	ObjectTypeScroll
	ObjectTypePotion
	ObjectTypeMisc
)

var objectPrices = map[ObjectType]int{
	ObjectTypeWeapon: 50,
	ObjectTypeArmor:  40,
	ObjectTypeShield: 35,
	ObjectTypeHelmet: 30,
	ObjectTypeBoots:  25,
	ObjectTypeGloves: 20,
	ObjectTypeRing:   100,
	ObjectTypeAmulet: 80,
	ObjectTypeScroll: 30,
	ObjectTypePotion: 20,
	ObjectTypeMisc:   10,
}

// Effects are the stat bonuses an object confers while equipped, or the
// restoration it grants when consumed.
type Effects struct {
	HP      int `json:"hp,omitempty"`
	Mana    int `json:"mana,omitempty"`
	Attack  int `json:"attack,omitempty"`
	Defense int `json:"defense,omitempty"`
}

// Object defines a kind of item loaded from asset files. Instances in
// inventories and rooms reference the definition by identifier.
type Object struct {
	// Keywords are the names players can target this object by.
	Keywords []string `json:"keywords"`

	// ShortDesc is used in action messages and inventory listings
	// (e.g. "a steel sword").
	ShortDesc string `json:"short_desc"`

	// LongDesc is shown when the object lies in a room.
	LongDesc string `json:"long_desc"`

	// Description is shown when the object is examined.
	Description string `json:"description,omitempty"`

	// TypeStr is the object type from JSON.
	TypeStr string `json:"type"`

	// Effects are applied while the object is worn or when it is consumed.
	Effects Effects `json:"effects,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Type returns the parsed ObjectType from TypeStr.
func (o *Object) Type() ObjectType {
	switch strings.ToLower(o.TypeStr) {
	case "weapon":
		return ObjectTypeWeapon
	case "armor":
		return ObjectTypeArmor
	case "shield":
		return ObjectTypeShield
	case "helmet":
		return ObjectTypeHelmet
	case "boots":
		return ObjectTypeBoots
	case "gloves":
		return ObjectTypeGloves
	case "ring":
		return ObjectTypeRing
	case "amulet":
		return ObjectTypeAmulet
	case "scroll":
		return ObjectTypeScroll
	case "potion":
		return ObjectTypePotion
	case "misc":
		return ObjectTypeMisc
	default:
		return ObjectTypeUnknown
	}
}

// Price returns what a merchant charges for this object.
func (o *Object) Price() int {
	if p, ok := objectPrices[o.Type()]; ok {
		return p
	}
	return objectPrices[ObjectTypeMisc]
}

// Equippable reports whether the object occupies an equipment slot.
func (o *Object) Equippable() bool {
	switch o.Type() {
	case ObjectTypeWeapon, ObjectTypeArmor, ObjectTypeShield, ObjectTypeHelmet,
		ObjectTypeBoots, ObjectTypeGloves, ObjectTypeRing, ObjectTypeAmulet:
		return true
	default:
		return false
	}
}

// Slot returns the equipment slot this object occupies.
func (o *Object) Slot() string {
	return strings.ToLower(o.TypeStr)
}

// Consumable reports whether using the object destroys it.
func (o *Object) Consumable() bool {
	t := o.Type()
	return t == ObjectTypePotion || t == ObjectTypeScroll
}

// Matches reports whether the given keyword targets this object, by
// keyword or by short description.
func (o *Object) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	for _, kw := range o.Keywords {
		if strings.Contains(strings.ToLower(kw), k) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(o.ShortDesc), k)
}

// Validate satisfies storage.ValidatingSpec
func (o *Object) Validate() error {
	el := errors.NewErrorList()
	if len(o.Keywords) < 1 {
		el.Add(fmt.Errorf("object keyword is required"))
	}
	if o.ShortDesc == "" {
		el.Add(fmt.Errorf("object short description is required"))
	}
	if o.TypeStr == "" {
		el.Add(fmt.Errorf("object type is required"))
	} else if o.Type() == ObjectTypeUnknown {
		el.Add(fmt.Errorf("object type %q is invalid", o.TypeStr))
	}
	return el.Err()
}

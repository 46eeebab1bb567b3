package game

import (
	"fmt"
	"strings"
)

// PickUp moves the first matching object from the room floor into the
// player's inventory.
func (w *World) PickUp(name, keyword string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		for i, obj := range p.room.objects {
			if obj.Matches(keyword) {
				p.room.objects = append(p.room.objects[:i], p.room.objects[i+1:]...)
				p.inventory = append(p.inventory, obj)
				w.tell(p, "You picked up %s.", obj.ShortDesc)
				return nil
			}
		}
		w.tell(p, "There is no such item here.")
		return nil
	})
}

// Drop moves a carried object onto the room floor.
func (w *World) Drop(name, keyword string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		i, item := p.findCarried(keyword)
		if item == nil {
			w.tell(p, "You don't have that item.")
			return nil
		}
		p.inventory = append(p.inventory[:i], p.inventory[i+1:]...)
		p.room.objects = append(p.room.objects, item)
		w.tell(p, "You drop %s.", item.ShortDesc)
		return nil
	})
}

// Inventory lists what the player carries.
func (w *World) Inventory(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		var b strings.Builder
		b.WriteString("Inventory:")
		if len(p.inventory) == 0 {
			b.WriteString("\nYour inventory is empty.")
		}
		for _, item := range p.inventory {
			fmt.Fprintf(&b, "\n- %s", item.ShortDesc)
		}
		w.tell(p, "%s", b.String())
		return nil
	})
}

// Equip moves an item from inventory into its equipment slot, swapping out
// whatever occupied the slot, and rederives stats.
func (w *World) Equip(name, itemName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		i, item := p.findCarried(itemName)
		if item == nil {
			w.tell(p, "You don't have that item.")
			return nil
		}
		if !item.Equippable() {
			w.tell(p, "You cannot equip that item.")
			return nil
		}

		slot := item.Slot()
		if old := p.equipment[slot]; old != nil {
			p.equipment[slot] = nil
			p.inventory = append(p.inventory, old)
			w.tell(p, "You remove %s.", old.ShortDesc)
		}
		p.inventory = append(p.inventory[:i], p.inventory[i+1:]...)
		p.equipment[slot] = item
		w.tell(p, "You equip %s.", item.ShortDesc)
		p.recalcStats()
		return nil
	})
}

// Unequip moves an equipped item back into inventory and rederives stats.
func (w *World) Unequip(name, itemName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		for _, slot := range equipSlots {
			item := p.equipment[slot]
			if item == nil || !item.Matches(itemName) {
				continue
			}
			p.equipment[slot] = nil
			p.inventory = append(p.inventory, item)
			w.tell(p, "You unequip %s.", item.ShortDesc)
			p.recalcStats()
			return nil
		}
		w.tell(p, "You don't have that item equipped.")
		return nil
	})
}

// UseItem consumes a potion or scroll, restoring health and mana per its
// effects. Equipment cannot be consumed.
func (w *World) UseItem(name, itemName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}
		i, item := p.findCarried(itemName)
		if item == nil {
			w.tell(p, "You don't have that item.")
			return nil
		}
		if !item.Consumable() {
			w.tell(p, "You cannot use %s.", item.ShortDesc)
			return nil
		}

		used := false
		if item.Effects.HP > 0 {
			before := p.hp
			p.Heal(item.Effects.HP)
			w.tell(p, "You use %s and recover %d health!", item.ShortDesc, p.hp-before)
			used = true
		}
		if item.Effects.Mana > 0 {
			before := p.mana
			p.mana += item.Effects.Mana
			if p.mana > p.maxMana {
				p.mana = p.maxMana
			}
			w.tell(p, "You use %s and recover %d mana!", item.ShortDesc, p.mana-before)
			used = true
		}
		if !used {
			w.tell(p, "You don't know how to use %s.", item.ShortDesc)
			return nil
		}

		p.inventory = append(p.inventory[:i], p.inventory[i+1:]...)
		w.tellRoom(p.room, []*Player{p}, "%s uses %s.", p.Name, item.ShortDesc)
		return nil
	})
}

// vendorsLocked returns the room's NPCs with stock to sell. Callers must
// hold the lock.
func vendorsLocked(r *RoomInstance) []*MobileInstance {
	var out []*MobileInstance
	for _, m := range r.npcs() {
		if len(m.stock) > 0 {
			out = append(out, m)
		}
	}
	return out
}

// ListVendors shows everything for sale in the room, from resident vendors
// and any traveling merchant event.
func (w *World) ListVendors(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		vendors := vendorsLocked(p.room)
		ev, hasMerchant := w.events[p.room.id]
		hasMerchant = hasMerchant && ev.kind == eventMerchant

		if len(vendors) == 0 && !hasMerchant {
			w.tell(p, "There are no vendors here.")
			return nil
		}

		var b strings.Builder
		b.WriteString("Items available for purchase:")
		for _, v := range vendors {
			fmt.Fprintf(&b, "\n\nFrom %s:", v.def.ShortDesc)
			for i, item := range v.stock {
				fmt.Fprintf(&b, "\n%d. %s - %d gold", i+1, item.ShortDesc, item.Price())
			}
		}
		if hasMerchant {
			fmt.Fprintf(&b, "\n\nFrom %s:", ev.merchantName)
			for i, item := range ev.stock {
				fmt.Fprintf(&b, "\n%d. %s - %d gold", i+1, item.ShortDesc, item.Price())
			}
		}
		w.tell(p, "%s", b.String())
		return nil
	})
}

// Buy purchases an item by name, trying a traveling merchant first and
// then resident vendors. Merchant stock never depletes; vendor stock does.
func (w *World) Buy(name, itemName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		vendors := vendorsLocked(p.room)
		ev, hasMerchant := w.events[p.room.id]
		hasMerchant = hasMerchant && ev.kind == eventMerchant

		if len(vendors) == 0 && !hasMerchant {
			w.tell(p, "There are no vendors here.")
			return nil
		}

		if hasMerchant {
			for _, item := range ev.stock {
				if !item.Matches(itemName) {
					continue
				}
				price := item.Price()
				if p.gold < price {
					w.tell(p, "You don't have enough gold! You need %d gold but only have %d.", price, p.gold)
					return nil
				}
				p.gold -= price
				p.inventory = append(p.inventory, item)
				w.tell(p, "You buy %s for %d gold from the traveling merchant.", item.ShortDesc, price)
				w.tell(p, "You have %d gold remaining.", p.gold)
				return nil
			}
		}

		for _, v := range vendors {
			for i, item := range v.stock {
				if !item.Matches(itemName) {
					continue
				}
				price := item.Price()
				if p.gold < price {
					w.tell(p, "You don't have enough gold! You need %d gold but only have %d.", price, p.gold)
					return nil
				}
				p.gold -= price
				p.inventory = append(p.inventory, item)
				v.stock = append(v.stock[:i], v.stock[i+1:]...)
				w.tell(p, "You buy %s for %d gold.", item.ShortDesc, price)
				w.tell(p, "You have %d gold remaining.", p.gold)
				return nil
			}
		}

		w.tell(p, "No vendor here sells '%s'.", itemName)
		return nil
	})
}

// Sell hands an item to the first vendor in the room for half its price.
func (w *World) Sell(name, itemName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		npcs := p.room.npcs()
		if len(npcs) == 0 {
			w.tell(p, "There are no vendors here to sell to.")
			return nil
		}

		i, item := p.findCarried(itemName)
		if item == nil {
			w.tell(p, "You don't have '%s' in your inventory.", itemName)
			return nil
		}

		price := item.Price() / 2
		p.gold += price
		p.inventory = append(p.inventory[:i], p.inventory[i+1:]...)
		npcs[0].stock = append(npcs[0].stock, item)
		w.tell(p, "You sell %s for %d gold.", item.ShortDesc, price)
		w.tell(p, "You now have %d gold.", p.gold)
		return nil
	})
}

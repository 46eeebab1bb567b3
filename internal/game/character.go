package game

import (
	"fmt"
	"strings"

	"github.com/dominicmartinelli/pymud3/internal/display"
)

// Health and mana recovered per regeneration tick while resting.
const restRecovery = 5

// Stats shows the player's derived numbers and worn equipment.
func (w *World) Stats(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("\nPlayer Stats:")
		fmt.Fprintf(&b, "\nHP: %d/%d", p.hp, p.maxHP)
		fmt.Fprintf(&b, "\nMana: %d/%d", p.mana, p.maxMana)
		fmt.Fprintf(&b, "\nLevel: %d", p.level)
		fmt.Fprintf(&b, "\nExperience: %d", p.experience)
		fmt.Fprintf(&b, "\nAttack Power: %d", p.attack)
		fmt.Fprintf(&b, "\nDefense: %d", p.defense)
		fmt.Fprintf(&b, "\nGold: %d", p.gold)
		if p.companion != nil {
			fmt.Fprintf(&b, "\nCompanion: %s", p.companion.Name)
		}
		if p.pet != nil {
			fmt.Fprintf(&b, "\nPet: %s", p.pet.Name)
		}
		b.WriteString("\nEquipped Items:")
		for _, slot := range equipSlots {
			if item := p.equipment[slot]; item != nil {
				fmt.Fprintf(&b, "\n  %s: %s", display.Capitalize(slot), item.ShortDesc)
			} else {
				fmt.Fprintf(&b, "\n  %s: None", display.Capitalize(slot))
			}
		}
		w.tell(p, "%s", b.String())
		return nil
	})
}

// Skills shows the player's attributes and unspent skill points.
func (w *World) Skills(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("Your Skills:")
		fmt.Fprintf(&b, "\nStrength: %d", p.strength)
		fmt.Fprintf(&b, "\nAgility: %d", p.agility)
		fmt.Fprintf(&b, "\nIntelligence: %d", p.intelligence)
		fmt.Fprintf(&b, "\nVitality: %d", p.vitality)
		fmt.Fprintf(&b, "\nAvailable Skill Points: %d", p.skillPoints)
		w.tell(p, "%s", b.String())
		return nil
	})
}

// Allocate spends skill points on an attribute. Derived stats rebuild and
// health and mana refill after a successful allocation.
func (w *World) Allocate(name, attribute string, points int) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if points < 1 {
			w.tell(p, "You must allocate at least one point.")
			return nil
		}
		if points > p.skillPoints {
			w.tell(p, "You don't have enough skill points.")
			return nil
		}

		switch strings.ToLower(attribute) {
		case "strength":
			p.strength += points
		case "agility":
			p.agility += points
		case "intelligence":
			p.intelligence += points
		case "vitality":
			p.vitality += points
		default:
			w.tell(p, "Invalid skill name.")
			return nil
		}

		p.skillPoints -= points
		p.recalcStats()
		p.restore()
		w.tell(p, "You have increased your %s by %d points.", strings.ToLower(attribute), points)
		w.tell(p, "Remaining skill points: %d", p.skillPoints)
		return nil
	})
}

// Rest sits the player down. The regeneration tick recovers health and
// mana while they stay seated.
func (w *World) Rest(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if p.hp >= p.maxHP && p.mana >= p.maxMana {
			w.tell(p, "You are already at full health and mana.")
			return nil
		}
		if p.resting {
			w.tell(p, "You are already resting.")
			return nil
		}
		p.resting = true
		w.tell(p, "You sit down and begin to rest.")
		return nil
	})
}

// Stand gets the player back on their feet.
func (w *World) Stand(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if !p.resting {
			w.tell(p, "You are not resting.")
			return nil
		}
		p.resting = false
		w.tell(p, "You stand up, feeling refreshed.")
		return nil
	})
}

// RegenTick recovers health and mana for every resting player. Rest ends
// on its own once both are full.
func (w *World) RegenTick() error {
	return w.run(func() error {
		for _, p := range w.players {
			if !p.resting {
				continue
			}
			p.Heal(restRecovery)
			p.mana += restRecovery
			if p.mana > p.maxMana {
				p.mana = p.maxMana
			}
			w.tell(p, "You rest and recover %d HP and %d Mana. Current HP: %d/%d, Mana: %d/%d",
				restRecovery, restRecovery, p.hp, p.maxHP, p.mana, p.maxMana)
			if p.hp == p.maxHP && p.mana == p.maxMana {
				w.tell(p, "You are fully healed and your mana is restored.")
				p.resting = false
			}
		}
		return nil
	})
}

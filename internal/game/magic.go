package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// CastSpell resolves one cast: spellbook lookup with partial matching,
// the mana gate, target resolution with in-combat auto-targeting, then
// the offensive, area, or healing effect.
func (w *World) CastSpell(name, spellName, targetName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if strings.TrimSpace(spellName) == "" {
			w.tell(p, "Cast what spell?")
			return nil
		}

		var target Entity
		if targetName != "" {
			target = w.findInRoomLocked(p.room, targetName)
			if target == nil {
				w.tell(p, "You don't see '%s' here.", targetName)
				return nil
			}
		}

		sp := p.findSpell(spellName)
		if sp == nil {
			w.tell(p, "You don't know the spell '%s'.", spellName)
			return nil
		}
		if p.mana < sp.ManaCost {
			w.tell(p, "You don't have enough mana to cast %s. (Need %d, have %d)", sp.Name, sp.ManaCost, p.mana)
			return nil
		}

		if sp.RequiresTarget && target == nil {
			if !w.combat.InCombat(p.Name) {
				w.tell(p, "The spell '%s' requires a target.", sp.Name)
				return nil
			}
			target = w.opponentInRoomLocked(p)
			if target == nil {
				w.tell(p, "The spell '%s' requires a target, but no combat opponent found.", sp.Name)
				return nil
			}
			w.tell(p, "Auto-targeting %s.", target.DisplayName())
		}
		if !sp.RequiresTarget && target != nil {
			w.tell(p, "The spell '%s' doesn't require a target.", sp.Name)
			return nil
		}

		p.mana -= sp.ManaCost
		w.tell(p, "You cast %s!", sp.Name)

		switch sp.Type() {
		case SpellTypeOffensive:
			w.castOffensiveLocked(p, sp, target)
		case SpellTypeAreaOffensive:
			w.castAreaLocked(p, sp)
		case SpellTypeHealing:
			w.castHealingLocked(p, sp)
		}
		return nil
	})
}

// castOffensiveLocked lands a single-target damage spell. A surviving
// target is engaged, and a surviving hostile hits back immediately.
func (w *World) castOffensiveLocked(p *Player, sp *Spell, target Entity) {
	lo, hi := sp.DamageRange()
	damage := (lo + rand.IntN(hi-lo+1)) * sp.Multiplier()
	target.ApplyDamage(damage)

	w.tell(p, "Your %s hits %s for %d damage!", sp.Name, target.DisplayName(), damage)
	if tp, ok := target.(*Player); ok {
		w.tell(tp, "%s's %s hits you for %d damage!", p.Name, sp.Name, damage)
	}

	if !target.Alive() {
		w.tell(p, "Your spell defeats %s!", target.DisplayName())
		w.spellDefeatLocked(p, target)
		return
	}

	w.combat.Engage(p.Name, target.DisplayName())
	if m, ok := target.(*MobileInstance); ok && m.Hostile() {
		w.strikeLocked(m, p, p.room)
		if !p.Alive() {
			w.defeatLocked(m, p, p.room)
		}
	}
}

// castAreaLocked rolls one damage figure and applies it to every standing
// hostile in the room. Defeated targets are collected during the sweep
// and their removals and rewards applied in one pass afterwards; the
// survivors all engage, and one of them hits back.
func (w *World) castAreaLocked(p *Player, sp *Spell) {
	var targets []*MobileInstance
	for _, m := range p.room.mobs {
		if m.Hostile() && m.Alive() {
			targets = append(targets, m)
		}
	}
	if len(targets) == 0 {
		w.tell(p, "Your %s crackles through the air but finds no targets!", sp.Name)
		return
	}

	lo, hi := sp.DamageRange()
	damage := (lo + rand.IntN(hi-lo+1)) * sp.Multiplier()
	w.tell(p, "Your %s arcs through the room!", sp.Name)

	var defeated, survivors []*MobileInstance
	for _, m := range targets {
		m.ApplyDamage(damage)
		w.tell(p, "Lightning strikes %s for %d damage!", m.def.ShortDesc, damage)
		if m.Alive() {
			survivors = append(survivors, m)
		} else {
			w.tell(p, "Your spell defeats %s!", m.def.ShortDesc)
			defeated = append(defeated, m)
		}
	}

	if len(defeated) > 0 {
		var totalBase, totalBonus int
		for _, m := range defeated {
			w.combat.Disengage(p.Name, m.def.ShortDesc)
			p.room.removeMob(m)
			base, bonus := experienceFor(m.level, m.xpMultiplier)
			totalBase += base
			totalBonus += bonus
		}
		w.awardExperienceLocked(p, totalBase, totalBonus)
	}

	for _, m := range survivors {
		w.combat.Engage(p.Name, m.def.ShortDesc)
	}
	if len(survivors) > 0 {
		m := survivors[rand.IntN(len(survivors))]
		w.strikeLocked(m, p, p.room)
		if !p.Alive() {
			w.defeatLocked(m, p, p.room)
		}
	}
}

// castHealingLocked heals the caster, reporting the health actually
// restored after the cap.
func (w *World) castHealingLocked(p *Player, sp *Spell) {
	lo, hi := sp.HealRange()
	amount := (lo + rand.IntN(hi-lo+1)) * sp.Multiplier()
	before := p.hp
	p.Heal(amount)
	w.tell(p, "Your %s restores %d hit points!", sp.Name, p.hp-before)
	w.tell(p, "You now have %d/%d hit points.", p.hp, p.maxHP)
}

// spellDefeatLocked applies a spell kill: players resurrect as usual,
// mobiles are removed and pay out.
func (w *World) spellDefeatLocked(p *Player, target Entity) {
	w.combat.Disengage(p.Name, target.DisplayName())
	switch v := target.(type) {
	case *Player:
		w.defeatPlayerLocked(p, v, p.room)
	case *MobileInstance:
		p.room.removeMob(v)
		base, bonus := experienceFor(v.level, v.xpMultiplier)
		w.awardExperienceLocked(p, base, bonus)
	}
}

// SpellList shows the player's spellbook.
func (w *World) SpellList(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("Your Spellbook:")
		if len(p.spellbook) == 0 {
			b.WriteString("\nYou don't know any spells yet.")
			w.tell(p, "%s", b.String())
			return nil
		}

		names := make([]string, 0, len(p.spellbook))
		for n := range p.spellbook {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			sp := p.spellbook[n]
			fmt.Fprintf(&b, "\n  %s (Cost: %d mana) - %s", sp.Name, sp.ManaCost, sp.Description)
		}
		w.tell(p, "%s", b.String())
		return nil
	})
}

// LearnSpell adds a defined spell to the player's spellbook by exact name.
func (w *World) LearnSpell(name, spellName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if strings.TrimSpace(spellName) == "" {
			w.tell(p, "Learn what spell?")
			return nil
		}

		key := strings.ToLower(spellName)
		sp, ok := w.dict.Spell(key)
		if !ok {
			w.tell(p, "There is no spell called '%s'.", key)
			return nil
		}
		if _, known := p.spellbook[strings.ToLower(sp.Name)]; known {
			w.tell(p, "You already know %s.", sp.Name)
			return nil
		}

		p.spellbook[strings.ToLower(sp.Name)] = sp
		w.tell(p, "You learn %s!", sp.Name)
		return nil
	})
}

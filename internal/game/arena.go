package game

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/dominicmartinelli/pymud3/internal/combat"
)

// statsOf adapts an entity to the combat package's stats block.
func statsOf(e Entity) combat.Stats {
	return combat.Stats{
		Level:       e.Level(),
		AttackPower: e.AttackPower(),
		Defense:     e.Defense(),
	}
}

// ResolvePair runs one combat round between two named combatants. It is
// called by the combat manager every tick; the manager holds no lock of
// its own during the call, so the usual world lock discipline applies.
func (w *World) ResolvePair(ctx context.Context, a, b string) bool {
	keep := false
	_ = w.run(func() error {
		keep = w.resolvePairLocked(a, b)
		return nil
	})
	return keep
}

// resolvePairLocked re-resolves both combatants by name and, when both
// still stand in the same room, trades one swing each way. It reports
// whether the pair should stay registered.
func (w *World) resolvePairLocked(a, b string) bool {
	ea, ra := w.resolveEntityLocked(a)
	eb, rb := w.resolveEntityLocked(b)
	if ea == nil || eb == nil || ra == nil || ra != rb {
		return false
	}
	if !ea.Alive() || !eb.Alive() {
		return false
	}

	w.strikeLocked(ea, eb, ra)
	if !eb.Alive() {
		w.defeatLocked(ea, eb, ra)
		return false
	}

	w.strikeLocked(eb, ea, ra)
	if !ea.Alive() {
		w.defeatLocked(eb, ea, ra)
		return false
	}
	return true
}

// strikeLocked resolves one melee swing and delivers its messages.
func (w *World) strikeLocked(att, def Entity, r *RoomInstance) {
	ex := combat.ResolveAttack(statsOf(att), statsOf(def), att.DisplayName(), def.DisplayName())
	w.deliverExchangeLocked(att, def, r, ex)
}

// deliverExchangeLocked applies an exchange's damage and queues its
// messages: the attacker's line for a player attacker, the defender's
// line plus a health report for a player defender, and the room line for
// bystanders.
func (w *World) deliverExchangeLocked(att, def Entity, r *RoomInstance, ex combat.Exchange) {
	if ex.Hit {
		def.ApplyDamage(ex.Damage)
	}

	ap, attackerIsPlayer := att.(*Player)
	if attackerIsPlayer {
		w.tell(ap, "%s", ex.AttackerMsg)
	}
	dp, defenderIsPlayer := def.(*Player)
	if defenderIsPlayer {
		w.tell(dp, "%s", ex.DefenderMsg)
		if ex.Hit {
			w.tell(dp, "Your HP: %d/%d", dp.hp, dp.maxHP)
		}
	}

	if ex.RoomMsg != "" {
		var except []*Player
		if attackerIsPlayer {
			except = append(except, ap)
		}
		if defenderIsPlayer {
			except = append(except, dp)
		}
		w.tellRoom(r, except, "%s", ex.RoomMsg)
	}
}

// defeatLocked handles a combatant dropping to zero health mid-fight.
// Players are restored and returned to the starting room; mobiles are
// removed and pay out experience, and the victor is pulled into the next
// fight if more hostiles are standing.
func (w *World) defeatLocked(victor, victim Entity, r *RoomInstance) {
	w.combat.Disengage(victor.DisplayName(), victim.DisplayName())

	switch v := victim.(type) {
	case *Player:
		w.defeatPlayerLocked(victor, v, r)
	case *MobileInstance:
		r.removeMob(v)
		if vp, ok := victor.(*Player); ok {
			w.tell(vp, "You have defeated %s!", v.def.ShortDesc)
			base, bonus := experienceFor(v.level, v.xpMultiplier)
			w.awardExperienceLocked(vp, base, bonus)
			w.continueFightLocked(vp, r)
		}
	}
}

// defeatPlayerLocked announces the defeat to the room, then restores the
// fallen player and returns them to the starting room.
func (w *World) defeatPlayerLocked(victor Entity, v *Player, r *RoomInstance) {
	w.tellRoom(r, nil, "%s has been defeated by %s!", v.Name, victor.DisplayName())
	v.restore()
	r.removePlayer(v)
	start := w.rooms[w.startRoom]
	v.room = start
	start.players = append(start.players, v)
	w.tell(v, "You have been resurrected in the starting room.")
	w.tell(v, "%s", w.describeLocked(v))
}

// awardExperienceLocked credits a kill's experience, announcing any
// invasion bonus, and checks for a level up.
func (w *World) awardExperienceLocked(p *Player, base, bonus int) {
	if bonus > 0 {
		w.tell(p, "Invasion Bonus: +%d extra experience!", bonus)
	}
	p.experience += base + bonus
	w.tell(p, "You gain %d experience points.", base+bonus)
	w.checkLevelUpLocked(p)
}

// continueFightLocked pulls a player who just won a fight into combat
// with the next standing hostile in the room.
func (w *World) continueFightLocked(p *Player, r *RoomInstance) {
	if w.combat.InCombat(p.Name) {
		return
	}
	for _, m := range r.mobs {
		if m.Hostile() && m.Alive() {
			w.combat.Engage(p.Name, m.def.ShortDesc)
			w.tell(p, "%s continues the fight!", m.def.ShortDesc)
			return
		}
	}
}

// findInRoomLocked resolves a target name against the room's occupants:
// players by exact name, then mobiles by exact keyword, keyword
// substring, and short description. Callers must hold the lock.
func (w *World) findInRoomLocked(r *RoomInstance, name string) Entity {
	key := strings.ToLower(name)

	for _, o := range r.players {
		if strings.ToLower(o.Name) == key {
			return o
		}
	}
	for _, m := range r.mobs {
		for _, kw := range m.def.Keywords {
			if strings.ToLower(kw) == key {
				return m
			}
		}
	}
	for _, m := range r.mobs {
		for _, kw := range m.def.Keywords {
			lkw := strings.ToLower(kw)
			if strings.Contains(lkw, key) || strings.Contains(key, lkw) {
				return m
			}
		}
	}
	for _, m := range r.mobs {
		desc := strings.ToLower(m.def.ShortDesc)
		if strings.Contains(desc, key) {
			return m
		}
		for _, word := range strings.Fields(key) {
			if strings.Contains(desc, word) {
				return m
			}
		}
	}
	return nil
}

// findNthInRoomLocked collects every occupant the name loosely matches,
// other players included, and returns the nth match so duplicates can be
// told apart ("attack goblin 2").
func (w *World) findNthInRoomLocked(r *RoomInstance, self *Player, name string, n int) Entity {
	if n < 1 {
		n = 1
	}
	key := strings.ToLower(name)

	var matches []Entity
	for _, o := range r.players {
		if o != self && strings.Contains(strings.ToLower(o.Name), key) {
			matches = append(matches, o)
		}
	}
	for _, m := range r.mobs {
		if strings.Contains(strings.ToLower(m.def.ShortDesc), key) {
			matches = append(matches, m)
			continue
		}
		for _, kw := range m.def.Keywords {
			if strings.Contains(strings.ToLower(kw), key) {
				matches = append(matches, m)
				break
			}
		}
	}

	if n > len(matches) {
		return nil
	}
	return matches[n-1]
}

// opponentInRoomLocked resolves the player's registered combat opponent
// to a live entity in their room.
func (w *World) opponentInRoomLocked(p *Player) Entity {
	opp, ok := w.combat.OpponentOf(p.Name)
	if !ok {
		return nil
	}
	key := strings.ToLower(opp)
	for _, o := range p.room.players {
		if o != p && strings.ToLower(o.Name) == key {
			return o
		}
	}
	for _, m := range p.room.mobs {
		if strings.ToLower(m.def.ShortDesc) == key {
			return m
		}
	}
	return nil
}

// Attack engages a target in combat. The tick loop resolves the actual
// exchanges. With no target named, the first standing hostile is chosen;
// an index picks between same-named targets.
func (w *World) Attack(name, targetName string, index int) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		var target Entity
		if targetName != "" {
			target = w.findNthInRoomLocked(p.room, p, targetName, index)
			if target == nil {
				w.tell(p, "No such target.")
				return nil
			}
		} else {
			for _, m := range p.room.mobs {
				if m.Hostile() && m.Alive() {
					target = m
					break
				}
			}
			if target == nil {
				w.tell(p, "Attack who?")
				return nil
			}
		}

		if w.combat.InCombat(p.Name) {
			w.tell(p, "You are already in combat!")
			return nil
		}

		w.combat.Engage(p.Name, target.DisplayName())
		w.tell(p, "You engage %s in combat!", target.DisplayName())
		w.tellRoom(p.room, []*Player{p}, "%s attacks %s!", p.Name, target.DisplayName())
		return nil
	})
}

// Special performs the stronger strike against the first standing hostile,
// or another player if no hostiles are present. It resolves immediately
// rather than waiting for the tick; a surviving hostile hits back.
func (w *World) Special(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		var target Entity
		for _, m := range p.room.mobs {
			if m.Hostile() && m.Alive() {
				target = m
				break
			}
		}
		if target == nil {
			for _, o := range p.room.players {
				if o != p {
					target = o
					break
				}
			}
		}
		if target == nil {
			w.tell(p, "There is no enemy to use 'special' on.")
			return nil
		}

		ex := combat.ResolveSpecial(statsOf(p), statsOf(target), p.Name, target.DisplayName())
		w.deliverExchangeLocked(p, target, p.room, ex)
		if !target.Alive() {
			w.defeatLocked(p, target, p.room)
			return nil
		}

		if m, ok := target.(*MobileInstance); ok && m.Hostile() {
			w.strikeLocked(m, p, p.room)
			if !p.Alive() {
				w.defeatLocked(m, p, p.room)
			}
		}
		return nil
	})
}

// Flee breaks off the player's current fight.
func (w *World) Flee(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if !w.combat.InCombat(p.Name) {
			w.tell(p, "You are not in combat.")
			return nil
		}
		opp, ok := w.combat.OpponentOf(p.Name)
		if !ok {
			w.tell(p, "You are no longer in combat.")
			return nil
		}

		w.combat.Disengage(p.Name, opp)
		w.tell(p, "You flee from combat!")
		w.tellRoom(p.room, []*Player{p}, "%s flees from combat!", p.Name)
		return nil
	})
}

// Tame attempts to claim a weakened tameable creature as a pet. The odds
// improve with level but never pass 80%.
func (w *World) Tame(name, targetName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if targetName == "" {
			w.tell(p, "Tame what?")
			return nil
		}
		target := w.findInRoomLocked(p.room, targetName)
		if target == nil {
			w.tell(p, "You don't see '%s' here.", targetName)
			return nil
		}
		if p.pet != nil {
			w.tell(p, "You already have an active pet.")
			return nil
		}
		m, ok := target.(*MobileInstance)
		if !ok || !m.def.Tameable {
			w.tell(p, "You can't tame that creature.")
			return nil
		}
		if m.hp*2 > m.maxHP {
			w.tell(p, "The creature is too strong to be tamed right now.")
			return nil
		}

		chance := 0.3 + float64(p.level)*0.02
		if chance > 0.8 {
			chance = 0.8
		}
		if rand.Float64() <= chance {
			p.pet = NewPet(m.def.ShortDesc)
			p.room.removeMob(m)
			w.tell(p, "You have successfully tamed %s as your pet!", m.def.ShortDesc)
		} else {
			w.tell(p, "Your taming attempt failed!")
		}
		return nil
	})
}

// Summon calls a creature to the player: a live instance anywhere in the
// world is moved, otherwise a fresh one spawns from a matching definition.
func (w *World) Summon(name, mobName string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if mobName == "" {
			w.tell(p, "Summon what?")
			return nil
		}

		if ent, from := w.resolveEntityLocked(mobName); ent != nil {
			if m, ok := ent.(*MobileInstance); ok {
				from.removeMob(m)
				p.room.mobs = append(p.room.mobs, m)
				w.tell(p, "You chant ancient words, and %s appears before you!", m.def.ShortDesc)
				w.tellRoom(p.room, []*Player{p}, "%s summons %s!", p.Name, m.def.ShortDesc)
				return nil
			}
		}

		if def := w.dict.FindMobile(mobName); def != nil {
			m := newMobileInstance(def)
			p.room.mobs = append(p.room.mobs, m)
			w.tell(p, "You chant ancient words, and %s appears before you!", m.def.ShortDesc)
			w.tellRoom(p.room, []*Player{p}, "%s summons %s!", p.Name, m.def.ShortDesc)
			return nil
		}

		w.tell(p, "You cannot find '%s' to summon.", mobName)
		return nil
	})
}

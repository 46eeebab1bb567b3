package combat

import (
	"fmt"
	"math/rand/v2"
)

// Stats are the combat-relevant numbers of one side of an exchange.
type Stats struct {
	Level       int
	AttackPower int
	Defense     int
}

// Exchange is the outcome of one resolved swing, with the messages each
// audience should see. DefenderMsg is only delivered when the defender is
// a player; RoomMsg may be empty.
type Exchange struct {
	Hit      bool
	Critical bool
	Damage   int

	AttackerMsg string
	DefenderMsg string
	RoomMsg     string
}

var missMessages = []string{
	"You swing wildly but miss %s!",
	"Your attack goes wide of %s!",
	"%s dodges your attack!",
	"You lose your footing and miss %s!",
}

var critMessages = []string{
	"You land a devastating blow on %s!",
	"You strike %s with incredible force!",
	"A perfect strike hits %s!",
	"You find a weak spot in %s's defense!",
}

var hitMessages = []string{
	"You strike %s solidly!",
	"Your weapon finds its mark on %s!",
	"You connect with a solid blow to %s!",
	"You land a hit on %s!",
}

// hitChance is 85 shifted five points per level of advantage, clamped to
// [10, 95] so no fight is ever a sure thing either way.
func hitChance(attackerLevel, defenderLevel int) int {
	chance := 85 + (attackerLevel-defenderLevel)*5
	if chance < 10 {
		chance = 10
	}
	if chance > 95 {
		chance = 95
	}
	return chance
}

// rollDamage rolls base damage over [ap/2, ap+ap/4], applies the critical
// multiplier, subtracts defense, and adds a small symmetric variance.
// A hit always lands for at least 1.
func rollDamage(ap, defense int, critical bool) int {
	lo, hi := ap/2, ap+ap/4
	if hi < lo {
		hi = lo
	}
	base := lo + rand.IntN(hi-lo+1)
	if critical {
		base = base * 3 / 2
	}
	damage := base - defense
	if damage < 1 {
		damage = 1
	}
	if damage > 4 {
		v := damage / 4
		damage += rand.IntN(2*v+1) - v
		if damage < 1 {
			damage = 1
		}
	}
	return damage
}

// ResolveAttack runs one swing of attacker against defender and returns
// the outcome. A miss mutates nothing and reports only messaging; callers
// apply Damage themselves so application stays inside their own locking.
func ResolveAttack(attacker, defender Stats, attackerName, defenderName string) Exchange {
	chance := hitChance(attacker.Level, defender.Level)
	if rand.IntN(100)+1 > chance {
		return Exchange{
			AttackerMsg: fmt.Sprintf(missMessages[rand.IntN(len(missMessages))], defenderName),
			DefenderMsg: fmt.Sprintf("%s's attack misses you!", attackerName),
			RoomMsg:     fmt.Sprintf("%s misses %s!", attackerName, defenderName),
		}
	}

	critChance := 5
	if d := attacker.Level - defender.Level; d > 0 {
		critChance += d
	}
	critical := rand.IntN(100)+1 <= critChance

	damage := rollDamage(attacker.AttackPower, defender.Defense, critical)

	ex := Exchange{
		Hit:      true,
		Critical: critical,
		Damage:   damage,
	}
	if critical {
		ex.AttackerMsg = fmt.Sprintf(critMessages[rand.IntN(len(critMessages))]+" (%d damage)", defenderName, damage)
		ex.DefenderMsg = fmt.Sprintf("%s critically hits you for %d damage!", attackerName, damage)
		ex.RoomMsg = fmt.Sprintf("%s lands a critical hit on %s!", attackerName, defenderName)
	} else {
		ex.AttackerMsg = fmt.Sprintf(hitMessages[rand.IntN(len(hitMessages))]+" (%d damage)", defenderName, damage)
		ex.DefenderMsg = fmt.Sprintf("%s attacks you for %d damage!", attackerName, damage)
	}
	return ex
}

// ResolveSpecial is the stronger single-target strike. It never misses
// and never crits; damage is attack power plus twice the attacker's
// level, less defense, floored at 1.
func ResolveSpecial(attacker, defender Stats, attackerName, defenderName string) Exchange {
	damage := attacker.AttackPower + attacker.Level*2 - defender.Defense
	if damage < 1 {
		damage = 1
	}
	return Exchange{
		Hit:         true,
		Damage:      damage,
		AttackerMsg: fmt.Sprintf("You unleash a powerful strike dealing %d damage to %s!", damage, defenderName),
		DefenderMsg: fmt.Sprintf("%s strikes you with a special attack for %d damage!", attackerName, damage),
	}
}

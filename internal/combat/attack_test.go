package combat

import (
	"strings"
	"testing"
)

func TestHitChanceClamped(t *testing.T) {
	tests := map[string]struct {
		attacker int
		defender int
		exp      int
	}{
		"even match":      {attacker: 5, defender: 5, exp: 85},
		"two level edge":  {attacker: 5, defender: 3, exp: 95},
		"upper clamp":     {attacker: 20, defender: 1, exp: 95},
		"lower clamp":     {attacker: 1, defender: 30, exp: 10},
		"small deficit":   {attacker: 3, defender: 5, exp: 75},
		"large advantage": {attacker: 10, defender: 8, exp: 95},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := hitChance(tt.attacker, tt.defender); got != tt.exp {
				t.Fatalf("expected %d, got %d", tt.exp, got)
			}
		})
	}
}

func TestRollDamageFloor(t *testing.T) {
	// Defense far above attack power: the floor has to carry every roll.
	for i := 0; i < 200; i++ {
		if got := rollDamage(4, 100, false); got != 1 {
			t.Fatalf("expected the damage floor, got %d", got)
		}
	}
}

func TestRollDamagePositive(t *testing.T) {
	for i := 0; i < 200; i++ {
		if got := rollDamage(40, 10, true); got < 1 {
			t.Fatalf("damage must stay positive, got %d", got)
		}
	}
}

func TestResolveAttackMissMutatesNothing(t *testing.T) {
	attacker := Stats{Level: 1, AttackPower: 10}
	defender := Stats{Level: 30, Defense: 5}

	// At a 29 level deficit the hit chance is clamped to 10%; collect
	// enough rounds to see both outcomes.
	var misses, hits int
	for i := 0; i < 500; i++ {
		ex := ResolveAttack(attacker, defender, "Rogue", "dragon")
		if ex.Hit {
			hits++
			continue
		}
		misses++
		if ex.Damage != 0 || ex.Critical {
			t.Fatalf("a miss must carry no damage, got %+v", ex)
		}
		if !strings.Contains(ex.DefenderMsg, "misses you") {
			t.Fatalf("expected the defender miss message, got %q", ex.DefenderMsg)
		}
	}
	if misses == 0 {
		t.Fatal("expected some misses at a clamped 10% hit chance")
	}
	if hits == 0 {
		t.Fatal("expected some hits at a clamped 10% hit chance")
	}
	if misses < hits {
		t.Fatalf("expected misses to dominate, got %d misses, %d hits", misses, hits)
	}
}

func TestResolveAttackHitMessaging(t *testing.T) {
	attacker := Stats{Level: 30, AttackPower: 40}
	defender := Stats{Level: 1, Defense: 0}

	for i := 0; i < 100; i++ {
		ex := ResolveAttack(attacker, defender, "Rogue", "goblin")
		if !ex.Hit {
			// 5% misses even at max advantage.
			continue
		}
		if ex.Damage < 1 {
			t.Fatalf("a hit must deal at least 1, got %d", ex.Damage)
		}
		if !strings.Contains(ex.AttackerMsg, "goblin") {
			t.Fatalf("attacker message must name the target, got %q", ex.AttackerMsg)
		}
		if !strings.Contains(ex.DefenderMsg, "Rogue") {
			t.Fatalf("defender message must name the attacker, got %q", ex.DefenderMsg)
		}
	}
}

func TestResolveAttackMissRate(t *testing.T) {
	attacker := Stats{Level: 5, AttackPower: 40}
	defender := Stats{Level: 3, Defense: 10}

	const trials = 20000
	var misses int
	for i := 0; i < trials; i++ {
		if !ResolveAttack(attacker, defender, "Rogue", "goblin").Hit {
			misses++
		}
	}

	// Two levels of advantage clamp the hit chance at 95%; allow generous
	// slack around the expected 5% miss rate.
	rate := float64(misses) / trials
	if rate < 0.02 || rate > 0.09 {
		t.Fatalf("expected a miss rate near 5%%, got %.2f%%", rate*100)
	}
}

func TestResolveSpecial(t *testing.T) {
	tests := map[string]struct {
		attacker Stats
		defender Stats
		exp      int
	}{
		"normal":       {attacker: Stats{Level: 5, AttackPower: 20}, defender: Stats{Defense: 10}, exp: 20},
		"floored":      {attacker: Stats{Level: 1, AttackPower: 2}, defender: Stats{Defense: 50}, exp: 1},
		"zero defense": {attacker: Stats{Level: 3, AttackPower: 10}, defender: Stats{}, exp: 16},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ex := ResolveSpecial(tt.attacker, tt.defender, "Rogue", "goblin")
			if !ex.Hit || ex.Critical {
				t.Fatalf("a special always hits and never crits, got %+v", ex)
			}
			if ex.Damage != tt.exp {
				t.Fatalf("expected %d damage, got %d", tt.exp, ex.Damage)
			}
		})
	}
}

package game

// Entity is the closed set of things that can stand in a room and trade
// blows: players, mobile instances, pets, and companions. Combat and
// messaging code work against this contract instead of probing concrete
// types for fields.
type Entity interface {
	DisplayName() string
	Level() int
	Health() int
	MaxHealth() int
	AttackPower() int
	Defense() int
	ApplyDamage(n int) int
	Heal(n int) int
	Alive() bool
}

// vitals carries the numeric half of the Entity contract. Embedding it
// gives every variant the same health bookkeeping.
type vitals struct {
	level   int
	hp      int
	maxHP   int
	attack  int
	defense int
}

func (v *vitals) Level() int       { return v.level }
func (v *vitals) Health() int      { return v.hp }
func (v *vitals) MaxHealth() int   { return v.maxHP }
func (v *vitals) AttackPower() int { return v.attack }
func (v *vitals) Defense() int     { return v.defense }
func (v *vitals) Alive() bool      { return v.hp > 0 }

// ApplyDamage reduces health by n, flooring at zero, and returns what remains.
func (v *vitals) ApplyDamage(n int) int {
	v.hp -= n
	if v.hp < 0 {
		v.hp = 0
	}
	return v.hp
}

// Heal restores up to n health, capped at max, and returns the new total.
func (v *vitals) Heal(n int) int {
	v.hp += n
	if v.hp > v.maxHP {
		v.hp = v.maxHP
	}
	return v.hp
}

// Pet is a tamed creature that follows its owner between rooms.
type Pet struct {
	vitals
	Name string
}

func NewPet(name string) *Pet {
	return &Pet{
		Name: name,
		vitals: vitals{
			level:   1,
			hp:      30,
			maxHP:   30,
			attack:  10,
			defense: 3,
		},
	}
}

func (p *Pet) DisplayName() string { return p.Name }

// Companion is a sturdier ally. There is no way to recruit one in-game yet;
// they enter the world through player records that already carry one.
type Companion struct {
	vitals
	Name string
}

func NewCompanion(name string) *Companion {
	return &Companion{
		Name: name,
		vitals: vitals{
			level:   1,
			hp:      50,
			maxHP:   50,
			attack:  15,
			defense: 5,
		},
	}
}

func (c *Companion) DisplayName() string { return c.Name }

package game

// Experience awards and level thresholds. Invasion spawns pay a bonus on
// top of the base award; everything else pays level * 20.

const (
	xpPerLevel        = 20
	levelUpThreshold  = 100
	skillPointsPerLvl = 5
)

// experienceFor returns the base experience a kill is worth plus the bonus
// its reward multiplier adds. The multiplier is 1 for ordinary mobiles.
func experienceFor(level int, multiplier float64) (base, bonus int) {
	base = level * xpPerLevel
	if multiplier > 1 {
		bonus = int(float64(base) * (multiplier - 1))
	}
	return base, bonus
}

// nextLevelAt returns the experience total needed to leave the given level.
func nextLevelAt(level int) int {
	return level * levelUpThreshold
}

// checkLevelUpLocked advances the player one level when their experience
// crosses the threshold. Stats are rederived and health and mana refill.
// Callers must hold the lock.
func (w *World) checkLevelUpLocked(p *Player) {
	if p.experience < nextLevelAt(p.level) {
		return
	}
	p.level++
	p.skillPoints += skillPointsPerLvl
	w.tell(p, "You have leveled up to level %d!", p.level)
	w.tell(p, "You have gained 5 skill points to allocate.")
	p.recalcStats()
	p.restore()
}

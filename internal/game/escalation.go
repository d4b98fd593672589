package game

import (
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"
)

// Escalate makes the undead stronger. Enemies already on the field hit
// harder and pay more but keep their health; enemy archetypes gain health,
// which only later spawns inherit. The danger level goes up by one.
// It returns how many field enemies were empowered.
func Escalate(g *grid.Grid, cat *roster.Catalog, econ *Economy) int {
	n := 0
	g.Each(func(_ grid.Pos, e *entity.Entity) bool {
		if e.IsEnemy() {
			e.Empower()
			n++
		}
		return true
	})
	cat.Escalate()
	econ.DangerLevel++
	return n
}

// addThreat rolls this round's threat gain and returns how many forced
// spawns the overflow calls for, leaving threat below the cap.
func addThreat(econ *Economy, rng RNG, threatCap int) (gain, overflow int) {
	gain = roll(rng, 1, econ.DangerLevel)
	econ.ThreatLevel += gain
	for econ.ThreatLevel >= threatCap {
		econ.ThreatLevel -= threatCap
		overflow++
	}
	return gain, overflow
}

package game

import (
	"fmt"

	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"
	"github.com/arashnrim/desperate-defenders/internal/telemetry"
)

// Round is what one pass of the combat resolver produced.
type Round struct {
	Events []telemetry.Event `json:"events"`
	Breach *Breach           `json:"breach,omitempty"`
}

// Breach is an enemy that walked off the player's edge of the field.
type Breach struct {
	Name string   `json:"name"`
	Pos  grid.Pos `json:"pos"`
}

type resolver struct {
	g            *grid.Grid
	cat          *roster.Catalog
	econ         *Economy
	rng          RNG
	knockbackPct int
	round        Round
}

// AdvanceRound lets every unit act once. Cells are visited row by row,
// left to right, against the live grid: whatever an earlier cell did is
// already visible to later cells, so an enemy knocked back into an
// unvisited cell acts again in the same round. The pass stops at the first
// breach.
func AdvanceRound(g *grid.Grid, cat *roster.Catalog, econ *Economy, rng RNG, knockbackPct int) Round {
	r := &resolver{g: g, cat: cat, econ: econ, rng: rng, knockbackPct: knockbackPct}

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			e := g.At(row, col)
			if e == nil {
				continue
			}
			if e.IsEnemy() {
				if r.advance(row, col, e) {
					return r.round
				}
				continue
			}
			if a, ok := cat.Get(e.Archetype); ok && a.Ranged {
				r.fire(row, col, e, a)
			}
		}
	}
	return r.round
}

func (r *resolver) emit(ev telemetry.Event) {
	ev.Turn = r.econ.Turn
	r.round.Events = append(r.round.Events, ev)
}

// fire resolves a ranged defender against the first occupant in its lane.
func (r *resolver) fire(row, col int, shooter *entity.Entity, a roster.Archetype) {
	ready := !a.OddTurnsOnly || r.econ.Turn%2 == 1

	for ahead := col + 1; ahead < r.g.Columns(); ahead++ {
		target := r.g.At(row, ahead)
		if target == nil {
			continue
		}
		if !ready || !target.IsEnemy() {
			return
		}

		damage := roll(r.rng, shooter.MinDamage, shooter.MaxDamage)
		if ta, ok := r.cat.Get(target.Archetype); ok && ta.Halves(shooter.Archetype) {
			damage /= 2
		}
		r.emit(telemetry.Event{Type: telemetry.EventShot, Actor: shooter.Name, Target: target.Name, Row: row, Col: col, Amount: damage})

		if target.Hit(damage) {
			r.g.Vacate(row, ahead)
			r.econ.CreditKill(target.Reward)
			r.emit(telemetry.Event{Type: telemetry.EventKill, Actor: shooter.Name, Target: target.Name, Row: row, Col: ahead, Amount: target.Reward})
			return
		}

		beyond := ahead + 1
		if a.Knockback && beyond < r.g.Columns() && r.g.Empty(row, beyond) && r.rng.Intn(100) < r.knockbackPct {
			r.g.Move(grid.Pos{Row: row, Col: ahead}, grid.Pos{Row: row, Col: beyond})
			r.emit(telemetry.Event{Type: telemetry.EventKnockback, Actor: shooter.Name, Target: target.Name, Row: row, Col: beyond})
		}
		return
	}
}

// advance moves an enemy left by its moves, biting the first defender in the
// way or whatever unit holds its destination. It reports true when the enemy
// got past the last column.
func (r *resolver) advance(row, col int, e *entity.Entity) bool {
	dest := col - e.Moves

	defended := false
	for c := max(dest, 0); c < col; c++ {
		if o := r.g.At(row, c); o != nil && o.IsPlayer() {
			defended = true
			break
		}
	}

	if dest < 0 && !defended {
		r.round.Breach = &Breach{Name: e.Name, Pos: grid.Pos{Row: row, Col: col}}
		r.emit(telemetry.Event{Type: telemetry.EventBreach, Actor: e.Name, Row: row, Col: col})
		return true
	}
	dest = max(dest, 0)

	damage := roll(r.rng, e.MinDamage, e.MaxDamage)

	if ahead := r.g.At(row, col-1); ahead != nil && ahead.IsPlayer() {
		r.bite(row, col, col-1, e, ahead, damage)
		return false
	}

	if occupant := r.g.At(row, dest); occupant != nil {
		r.bite(row, col, dest, e, occupant, damage)
		return false
	}
	r.g.Move(grid.Pos{Row: row, Col: col}, grid.Pos{Row: row, Col: dest})
	r.emit(telemetry.Event{Type: telemetry.EventAdvance, Actor: e.Name, Row: row, Col: dest})
	return false
}

// bite hits the unit at victimCol, ally or defender; a slain victim's cell is
// taken by the attacker in the same tick. Bites never pay a reward.
func (r *resolver) bite(row, col, victimCol int, e, victim *entity.Entity, damage int) {
	r.emit(telemetry.Event{Type: telemetry.EventBite, Actor: e.Name, Target: victim.Name, Row: row, Col: col, Amount: damage})
	if !victim.Hit(damage) {
		return
	}
	r.g.Vacate(row, victimCol)
	r.emit(telemetry.Event{Type: telemetry.EventSlain, Actor: e.Name, Target: victim.Name, Row: row, Col: victimCol})
	r.g.Move(grid.Pos{Row: row, Col: col}, grid.Pos{Row: row, Col: victimCol})
	r.emit(telemetry.Event{Type: telemetry.EventAdvance, Actor: e.Name, Row: row, Col: victimCol})
}

func (b *Breach) String() string {
	return fmt.Sprintf("%s reached the city from lane %d", b.Name, b.Pos.Row)
}

package game

import (
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"
)

// Spawn describes one spawn attempt.
type Spawn struct {
	Entity *entity.Entity
	Pos    grid.Pos
	Forced bool
}

// SpawnRandomEnemy drops a random enemy into a random row of the last
// column. Unless force is set it only does so when the field has no enemy,
// which keeps a single enemy in play at low threat. A spawn whose cell is
// already taken is dropped, not retried; ok is false in both the skipped and
// the dropped case, and attempted tells them apart.
func SpawnRandomEnemy(g *grid.Grid, cat *roster.Catalog, rng RNG, force bool) (s Spawn, attempted, ok bool) {
	if !force && g.HasEnemy() {
		return Spawn{}, false, false
	}
	enemies := cat.Enemies()
	if len(enemies) == 0 {
		return Spawn{}, false, false
	}

	a := enemies[rng.Intn(len(enemies))]
	pos := grid.Pos{Row: rng.Intn(g.Rows()), Col: g.Columns() - 1}
	e := entity.New(a)

	s = Spawn{Entity: e, Pos: pos, Forced: force}
	if err := g.Place(e, pos.Row, pos.Col); err != nil {
		return s, true, false
	}
	return s, true, true
}

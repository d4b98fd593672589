package game

import (
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"
)

// CellView is the read-only picture of one occupant.
type CellView struct {
	ID           roster.ID   `json:"id"`
	Name         string      `json:"name"`
	Side         roster.Side `json:"side"`
	Health       int         `json:"current_health"`
	MaxHealth    int         `json:"health"`
	UpgradeCount int         `json:"upgrade_count,omitempty"`
}

// GridSnapshot is everything a UI needs to draw the field and the status
// line. It shares no memory with the session.
type GridSnapshot struct {
	Rows          int           `json:"rows"`
	Columns       int           `json:"columns"`
	PlayerColumns int           `json:"player_columns"`
	Cells         [][]*CellView `json:"cells"`
	Economy       Economy       `json:"economy"`
	Outcome       Outcome       `json:"outcome"`
	Catalyst      string        `json:"catalyst,omitempty"`
}

// At returns the view at (row, col), or nil for an empty or out-of-range cell.
func (g GridSnapshot) At(row, col int) *CellView {
	if row < 0 || row >= len(g.Cells) || col < 0 || col >= len(g.Cells[row]) {
		return nil
	}
	return g.Cells[row][col]
}

func (s *Session) RenderState() GridSnapshot {
	snap := GridSnapshot{
		Rows:          s.grid.Rows(),
		Columns:       s.grid.Columns(),
		PlayerColumns: s.grid.PlayerColumns(),
		Cells:         make([][]*CellView, s.grid.Rows()),
		Economy:       s.econ,
		Outcome:       s.outcome,
		Catalyst:      s.catalyst,
	}
	for r := range snap.Cells {
		snap.Cells[r] = make([]*CellView, s.grid.Columns())
	}
	s.grid.Each(func(p grid.Pos, e *entity.Entity) bool {
		snap.Cells[p.Row][p.Col] = &CellView{
			ID:           e.Archetype,
			Name:         e.Name,
			Side:         e.Side,
			Health:       e.Health,
			MaxHealth:    e.MaxHealth,
			UpgradeCount: e.UpgradeCount,
		}
		return true
	})
	return snap
}

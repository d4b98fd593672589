package grid

import (
	"errors"
	"fmt"

	"github.com/arashnrim/desperate-defenders/internal/entity"
)

var ErrOccupied = errors.New("cell is occupied")

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Grid is the field: rows are lanes, enemies walk from the last column
// towards column 0. A nil cell is empty. Each entity pointer lives in at most
// one cell; Move transfers it, nothing copies it.
type Grid struct {
	rows, cols int
	cells      [][]*entity.Entity
}

func New(rows, cols int) *Grid {
	if rows < 1 || cols < 2 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", rows, cols))
	}
	cells := make([][]*entity.Entity, rows)
	for r := range cells {
		cells[r] = make([]*entity.Entity, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func (g *Grid) Rows() int    { return g.rows }
func (g *Grid) Columns() int { return g.cols }

// PlayerColumns is the width of the left half where defenders may be placed.
func (g *Grid) PlayerColumns() int { return g.cols / 2 }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) mustBound(row, col int) {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("grid: cell (%d,%d) outside %dx%d", row, col, g.rows, g.cols))
	}
}

func (g *Grid) At(row, col int) *entity.Entity {
	g.mustBound(row, col)
	return g.cells[row][col]
}

func (g *Grid) Empty(row, col int) bool { return g.At(row, col) == nil }

// Place takes ownership of e. An occupied cell is left untouched.
func (g *Grid) Place(e *entity.Entity, row, col int) error {
	g.mustBound(row, col)
	if e == nil {
		panic("grid: place nil entity")
	}
	if g.cells[row][col] != nil {
		return fmt.Errorf("%w: %s", ErrOccupied, Pos{row, col})
	}
	g.cells[row][col] = e
	return nil
}

// Vacate removes and returns the occupant, or nil for an empty cell.
func (g *Grid) Vacate(row, col int) *entity.Entity {
	g.mustBound(row, col)
	e := g.cells[row][col]
	g.cells[row][col] = nil
	return e
}

// Move relocates the occupant of from into to. Moving into an occupied cell
// or out of an empty one breaks the one-entity-per-cell invariant and panics.
func (g *Grid) Move(from, to Pos) {
	g.mustBound(from.Row, from.Col)
	g.mustBound(to.Row, to.Col)
	e := g.cells[from.Row][from.Col]
	if e == nil {
		panic(fmt.Sprintf("grid: move from empty cell %s", from))
	}
	if g.cells[to.Row][to.Col] != nil {
		panic(fmt.Sprintf("grid: move %s into occupied cell %s", from, to))
	}
	g.cells[from.Row][from.Col] = nil
	g.cells[to.Row][to.Col] = e
}

func (g *Grid) HasEnemy() bool {
	found := false
	g.Each(func(_ Pos, e *entity.Entity) bool {
		found = e.IsEnemy()
		return !found
	})
	return found
}

// Each visits occupied cells in row-major order until fn returns false.
func (g *Grid) Each(fn func(p Pos, e *entity.Entity) bool) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if e := g.cells[r][c]; e != nil {
				if !fn(Pos{r, c}, e) {
					return
				}
			}
		}
	}
}

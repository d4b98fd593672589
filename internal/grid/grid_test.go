package grid

import (
	"errors"
	"testing"

	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(id roster.ID) *entity.Entity {
	for _, a := range roster.Defaults() {
		if a.ID == id {
			return entity.New(a)
		}
	}
	panic("unknown archetype " + string(id))
}

func TestNew_Dimensions(t *testing.T) {
	g := New(5, 7)
	assert.Equal(t, 5, g.Rows())
	assert.Equal(t, 7, g.Columns())
	assert.Equal(t, 3, g.PlayerColumns())
	assert.Equal(t, 0, occupiedForTest(g))

	assert.Equal(t, 4, New(2, 8).PlayerColumns())
}

func TestPlace_OccupiedCellFailsWithoutMutation(t *testing.T) {
	g := New(5, 7)
	wall := unit(roster.Wall)
	require.NoError(t, g.Place(wall, 2, 1))

	for _, id := range []roster.ID{roster.Archer, roster.Cannon, roster.Zombie} {
		err := g.Place(unit(id), 2, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOccupied))
		assert.Same(t, wall, g.At(2, 1))
		assert.Equal(t, 20, g.At(2, 1).Health)
	}
	assert.Equal(t, 1, occupiedForTest(g))
}

func TestVacate(t *testing.T) {
	g := New(3, 4)
	z := unit(roster.Zombie)
	require.NoError(t, g.Place(z, 0, 3))

	assert.Same(t, z, g.Vacate(0, 3))
	assert.True(t, g.Empty(0, 3))
	assert.Nil(t, g.Vacate(0, 3))
}

func TestMove_TransfersOwnership(t *testing.T) {
	g := New(3, 6)
	z := unit(roster.Zombie)
	require.NoError(t, g.Place(z, 1, 5))

	g.Move(Pos{1, 5}, Pos{1, 4})

	assert.True(t, g.Empty(1, 5))
	assert.Same(t, z, g.At(1, 4))
	assert.Equal(t, 1, occupiedForTest(g))
}

func TestMove_InvariantViolationsPanic(t *testing.T) {
	g := New(3, 6)
	require.NoError(t, g.Place(unit(roster.Zombie), 0, 5))
	require.NoError(t, g.Place(unit(roster.Wall), 0, 4))

	assert.Panics(t, func() { g.Move(Pos{0, 5}, Pos{0, 4}) })
	assert.Panics(t, func() { g.Move(Pos{1, 5}, Pos{1, 4}) })
}

func TestOutOfBoundsPanics(t *testing.T) {
	g := New(2, 4)
	assert.Panics(t, func() { g.At(2, 0) })
	assert.Panics(t, func() { g.At(0, -1) })
	assert.Panics(t, func() { _ = g.Place(unit(roster.Wall), 0, 4) })
	assert.False(t, g.InBounds(-1, 0))
	assert.True(t, g.InBounds(1, 3))
}

func TestHasEnemy(t *testing.T) {
	g := New(3, 6)
	assert.False(t, g.HasEnemy())

	require.NoError(t, g.Place(unit(roster.Archer), 0, 0))
	assert.False(t, g.HasEnemy())

	require.NoError(t, g.Place(unit(roster.Skeleton), 2, 5))
	assert.True(t, g.HasEnemy())
}

func TestEach_RowMajorOrder(t *testing.T) {
	g := New(2, 4)
	require.NoError(t, g.Place(unit(roster.Zombie), 1, 0))
	require.NoError(t, g.Place(unit(roster.Wall), 0, 3))
	require.NoError(t, g.Place(unit(roster.Archer), 0, 1))

	var seen []Pos
	g.Each(func(p Pos, _ *entity.Entity) bool {
		seen = append(seen, p)
		return true
	})
	assert.Equal(t, []Pos{{0, 1}, {0, 3}, {1, 0}}, seen)
}

func occupiedForTest(g *Grid) int {
	n := 0
	g.Each(func(Pos, *entity.Entity) bool {
		n++
		return true
	})
	return n
}

package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Defaults(t *testing.T) {
	c, err := NewCatalog(Defaults())
	require.NoError(t, err)

	players := c.Players()
	require.Len(t, players, 3)
	assert.Equal(t, []ID{Archer, Wall, Cannon}, []ID{players[0].ID, players[1].ID, players[2].ID})

	enemies := c.Enemies()
	require.Len(t, enemies, 3)
	assert.Equal(t, []ID{Zombie, Werewolf, Skeleton}, []ID{enemies[0].ID, enemies[1].ID, enemies[2].ID})

	skele, ok := c.Get(Skeleton)
	require.True(t, ok)
	assert.True(t, skele.Halves(Archer))
	assert.False(t, skele.Halves(Cannon))

	_, ok = c.Get("NOPE")
	assert.False(t, ok)
}

func TestNewCatalog_RejectsBadInput(t *testing.T) {
	cases := map[string]func([]Archetype) []Archetype{
		"duplicate id": func(a []Archetype) []Archetype {
			return append(a, a[0])
		},
		"enemy without moves": func(a []Archetype) []Archetype {
			a[3].Moves = 0
			return a
		},
		"inverted damage": func(a []Archetype) []Archetype {
			a[0].MinDamage = 5
			return a
		},
		"no enemies": func(a []Archetype) []Archetype {
			return a[:3]
		},
		"unknown halved_by": func(a []Archetype) []Archetype {
			a[5].HalvedBy = []ID{"GHOST"}
			return a
		},
		"unknown side": func(a []Archetype) []Archetype {
			a[1].Side = "neutral"
			return a
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalog(mutate(Defaults()))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_EscalateOnlyTouchesEnemyHealth(t *testing.T) {
	c, err := NewCatalog(Defaults())
	require.NoError(t, err)

	c.Escalate()
	c.Escalate()

	zombie, _ := c.Get(Zombie)
	assert.Equal(t, 17, zombie.Health)
	assert.Equal(t, 3, zombie.MinDamage)
	assert.Equal(t, 2, zombie.Reward)

	archer, _ := c.Get(Archer)
	assert.Equal(t, 5, archer.Health)
	assert.Equal(t, 2, c.Escalations())
}

func TestCatalog_GetReturnsCopies(t *testing.T) {
	c, err := NewCatalog(Defaults())
	require.NoError(t, err)

	a, _ := c.Get(Archer)
	a.Upgrade.BaseCost = 99
	again, _ := c.Get(Archer)
	assert.Equal(t, 8, again.Upgrade.BaseCost)

	s, _ := c.Get(Skeleton)
	s.HalvedBy[0] = Cannon
	again, _ = c.Get(Skeleton)
	assert.Equal(t, []ID{Archer}, again.HalvedBy)
}

func TestUpgradeRule_Cost(t *testing.T) {
	u := UpgradeRule{BaseCost: 8, CostStep: 2}
	assert.Equal(t, 8, u.Cost(0))
	assert.Equal(t, 12, u.Cost(2))
}

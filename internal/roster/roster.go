package roster

import (
	"errors"
	"fmt"
)

type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

type ID string

const (
	Archer   ID = "ARCHR"
	Wall     ID = "WALL"
	Cannon   ID = "CANON"
	Zombie   ID = "ZOMBI"
	Werewolf ID = "WWOLF"
	Skeleton ID = "SKELE"
)

var ErrUnknownArchetype = errors.New("unknown archetype")

// UpgradeRule prices and sizes one upgrade step of a player archetype.
type UpgradeRule struct {
	BaseCost    int `yaml:"base_cost" json:"base_cost"`
	CostStep    int `yaml:"cost_step" json:"cost_step"`
	DamageBonus int `yaml:"damage_bonus" json:"damage_bonus"`
	HealthBonus int `yaml:"health_bonus" json:"health_bonus"`
}

// Cost of the next upgrade for a unit that has already been upgraded count times.
func (u UpgradeRule) Cost(count int) int {
	return u.BaseCost + u.CostStep*count
}

type Archetype struct {
	ID        ID     `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Side      Side   `yaml:"side" json:"side"`
	Health    int    `yaml:"health" json:"health"`
	MinDamage int    `yaml:"min_damage" json:"min_damage"`
	MaxDamage int    `yaml:"max_damage" json:"max_damage"`

	// player side
	Cost         int          `yaml:"cost,omitempty" json:"cost,omitempty"`
	Ranged       bool         `yaml:"ranged,omitempty" json:"ranged,omitempty"`
	OddTurnsOnly bool         `yaml:"odd_turns_only,omitempty" json:"odd_turns_only,omitempty"`
	Knockback    bool         `yaml:"knockback,omitempty" json:"knockback,omitempty"`
	Upgrade      *UpgradeRule `yaml:"upgrade,omitempty" json:"upgrade,omitempty"`

	// enemy side
	Moves    int  `yaml:"moves,omitempty" json:"moves,omitempty"`
	Reward   int  `yaml:"reward,omitempty" json:"reward,omitempty"`
	HalvedBy []ID `yaml:"halved_by,omitempty" json:"halved_by,omitempty"`
}

func (a Archetype) IsEnemy() bool { return a.Side == SideEnemy }

// Copy returns a with its own UpgradeRule and HalvedBy slice.
func (a Archetype) Copy() Archetype {
	if a.Upgrade != nil {
		u := *a.Upgrade
		a.Upgrade = &u
	}
	a.HalvedBy = append([]ID(nil), a.HalvedBy...)
	return a
}

// Halves reports whether damage dealt by attacker to this archetype is halved.
func (a Archetype) Halves(attacker ID) bool {
	for _, id := range a.HalvedBy {
		if id == attacker {
			return true
		}
	}
	return false
}

// Validate checks a single archetype in isolation.
func (a Archetype) Validate() error {
	if a.ID == "" {
		return errors.New("archetype id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %s: name is required", a.ID)
	}
	if a.Health <= 0 {
		return fmt.Errorf("archetype %s: health must be positive, got %d", a.ID, a.Health)
	}
	if a.MinDamage < 0 || a.MaxDamage < a.MinDamage {
		return fmt.Errorf("archetype %s: invalid damage range %d-%d", a.ID, a.MinDamage, a.MaxDamage)
	}

	switch a.Side {
	case SidePlayer:
		if a.Cost < 0 {
			return fmt.Errorf("archetype %s: cost must not be negative", a.ID)
		}
		if a.Upgrade != nil && (a.Upgrade.BaseCost < 0 || a.Upgrade.CostStep < 0) {
			return fmt.Errorf("archetype %s: upgrade costs must not be negative", a.ID)
		}
	case SideEnemy:
		if a.Moves < 1 {
			return fmt.Errorf("archetype %s: enemies must move at least 1 cell, got %d", a.ID, a.Moves)
		}
		if a.Reward < 0 {
			return fmt.Errorf("archetype %s: reward must not be negative", a.ID)
		}
	default:
		return fmt.Errorf("archetype %s: unknown side %q", a.ID, a.Side)
	}
	return nil
}

// Defaults returns the stock catalog: three defenders and three undead.
func Defaults() []Archetype {
	return []Archetype{
		{
			ID: Archer, Name: "Archer", Side: SidePlayer,
			Health: 5, MinDamage: 1, MaxDamage: 4, Cost: 5,
			Ranged:  true,
			Upgrade: &UpgradeRule{BaseCost: 8, CostStep: 2, DamageBonus: 1, HealthBonus: 1},
		},
		{
			ID: Wall, Name: "Wall", Side: SidePlayer,
			Health: 20, MinDamage: 0, MaxDamage: 0, Cost: 3,
			Upgrade: &UpgradeRule{BaseCost: 6, CostStep: 2, HealthBonus: 5},
		},
		{
			ID: Cannon, Name: "Cannon", Side: SidePlayer,
			Health: 8, MinDamage: 3, MaxDamage: 5, Cost: 7,
			Ranged: true, OddTurnsOnly: true, Knockback: true,
		},
		{
			ID: Zombie, Name: "Zombie", Side: SideEnemy,
			Health: 15, MinDamage: 3, MaxDamage: 6, Moves: 1, Reward: 2,
		},
		{
			ID: Werewolf, Name: "Werewolf", Side: SideEnemy,
			Health: 10, MinDamage: 1, MaxDamage: 4, Moves: 2, Reward: 3,
		},
		{
			ID: Skeleton, Name: "Skeleton", Side: SideEnemy,
			Health: 10, MinDamage: 1, MaxDamage: 3, Moves: 1, Reward: 3,
			HalvedBy: []ID{Archer},
		},
	}
}

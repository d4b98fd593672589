package game

import (
	"fmt"

	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/telemetry"
)

type UpgradeResult struct {
	Name         string   `json:"name"`
	Pos          grid.Pos `json:"pos"`
	Cost         int      `json:"cost"`
	UpgradeCount int      `json:"upgrade_count"`
	Health       int      `json:"current_health"`
	MaxHealth    int      `json:"health"`
	MinDamage    int      `json:"min_damage"`
	MaxDamage    int      `json:"max_damage"`
	Gold         int      `json:"gold"`
}

// Upgrade improves the defender at (row, col). Each step costs more than the
// last. It does not use up the turn.
func (s *Session) Upgrade(row, col int) (UpgradeResult, error) {
	if s.Over() {
		return UpgradeResult{}, fmt.Errorf("%w: %s", ErrGameOver, s.outcome)
	}
	if err := s.validatePlayerCell(row, col); err != nil {
		return UpgradeResult{}, err
	}

	pos := grid.Pos{Row: row, Col: col}
	e := s.grid.At(row, col)
	if e == nil {
		return UpgradeResult{}, fmt.Errorf("%w at %s", ErrNoEntity, pos)
	}
	if e.IsEnemy() {
		return UpgradeResult{}, fmt.Errorf("%w: %s at %s is an enemy", ErrNotUpgradable, e.Name, pos)
	}
	a, ok := s.catalog.Get(e.Archetype)
	if !ok || a.Upgrade == nil {
		return UpgradeResult{}, fmt.Errorf("%w: %s has no upgrades", ErrNotUpgradable, e.Name)
	}

	cost := a.Upgrade.Cost(e.UpgradeCount)
	if !s.econ.CanAfford(cost) {
		return UpgradeResult{}, fmt.Errorf("%w: upgrading %s costs %d, have %d", ErrInsufficientGold, e.Name, cost, s.econ.Gold)
	}

	s.econ.Spend(cost)
	e.ApplyUpgrade(*a.Upgrade)

	var tr TurnResult
	s.record(&tr, telemetry.Event{Type: telemetry.EventUpgrade, Actor: e.Name, Row: row, Col: col, Amount: cost})

	return UpgradeResult{
		Name:         e.Name,
		Pos:          pos,
		Cost:         cost,
		UpgradeCount: e.UpgradeCount,
		Health:       e.Health,
		MaxHealth:    e.MaxHealth,
		MinDamage:    e.MinDamage,
		MaxDamage:    e.MaxDamage,
		Gold:         s.econ.Gold,
	}, nil
}

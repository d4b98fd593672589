package game

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientGold = errors.New("not enough gold")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNoEntity         = errors.New("no entity in cell")
	ErrNotUpgradable    = errors.New("entity cannot be upgraded")
	ErrGameOver         = errors.New("game is over")
)

// ValidationError rejects caller input before any state is touched.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Parts of a save blob reported by LoadError.
const (
	PartHeader  = "header"
	PartEconomy = "economy"
	PartGrid    = "grid"
)

// LoadError reports which part of a save blob could not be restored.
type LoadError struct {
	Part string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Part, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

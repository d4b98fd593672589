package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/arashnrim/desperate-defenders/internal/config"
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"
	"github.com/arashnrim/desperate-defenders/internal/telemetry"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

func (o Outcome) Terminal() bool { return o == OutcomeVictory || o == OutcomeDefeat }

// Options carries the collaborators a session needs besides its config.
type Options struct {
	RNG    RNG                  // nil seeds from the clock
	Logger *log.Logger          // nil disables logging
	Events telemetry.Repository // nil keeps events in memory
}

func (o Options) withDefaults() Options {
	if o.RNG == nil {
		o.RNG = NewSeededRNG(0)
	}
	if o.Events == nil {
		o.Events = telemetry.NewMemoryRepository()
	}
	return o
}

// Session owns one field, one economy and one roster copy. It is driven by
// one call per player decision and is not safe for concurrent use.
type Session struct {
	id       string
	cfg      *config.Config
	catalog  *roster.Catalog
	grid     *grid.Grid
	econ     Economy
	rng      RNG
	logger   *log.Logger
	events   telemetry.Repository
	outcome  Outcome
	catalyst string
}

// TurnResult reports everything one player decision caused.
type TurnResult struct {
	Turn       int               `json:"turn"`
	Outcome    Outcome           `json:"outcome"`
	Catalyst   string            `json:"catalyst,omitempty"`
	Spent      int               `json:"spent,omitempty"`
	Income     int               `json:"income"`
	ThreatGain int               `json:"threat_gain"`
	Spawned    int               `json:"spawned"`
	Escalated  bool              `json:"escalated"`
	Events     []telemetry.Event `json:"events"`
}

// NewSession starts a game from cfg. The opening pacing spawn happens here,
// so the first snapshot already shows an enemy.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	s, err := newSession(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.id = uuid.NewString()
	s.grid = grid.New(cfg.Game.Rows, cfg.Game.Columns)
	s.econ = Economy{
		Gold:        cfg.Game.Gold,
		ThreatLevel: cfg.Game.ThreatLevel,
		DangerLevel: cfg.Game.DangerLevel,
		Target:      cfg.Game.Target,
	}

	logJSON(s.logger, "info", "session_created", map[string]any{
		"session_id": s.id,
		"rows":       cfg.Game.Rows,
		"columns":    cfg.Game.Columns,
		"gold":       s.econ.Gold,
		"target":     s.econ.Target,
	})

	var tr TurnResult
	s.beginCycle(&tr)
	return s, nil
}

func newSession(cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := roster.NewCatalog(cfg.Roster)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return &Session{
		cfg:     cfg.Clone(),
		catalog: cat,
		rng:     opts.RNG,
		logger:  opts.Logger,
		events:  opts.Events,
		outcome: OutcomeOngoing,
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Economy() Economy { return s.econ }

// Outcome returns the game state and, after a defeat, the name of the enemy
// that reached the city.
func (s *Session) Outcome() (Outcome, string) { return s.outcome, s.catalyst }

func (s *Session) Over() bool { return s.outcome.Terminal() }

// Shop lists the defenders that can be bought, in catalog order.
func (s *Session) Shop() []roster.Archetype { return s.catalog.Players() }

// Events returns every event recorded by this session's repository.
func (s *Session) Events() ([]telemetry.Event, error) {
	return s.events.GetEvents(0, nil)
}

// EndTurn spends the player's action on waiting and resolves one round.
// Once the game is over it changes nothing and re-reports the outcome.
func (s *Session) EndTurn() TurnResult {
	if s.Over() {
		return s.terminalResult()
	}
	var tr TurnResult
	s.econ.Turn++
	s.resolve(&tr)
	return s.finish(&tr)
}

// Purchase buys a defender into the player half of the field. Buying uses
// up the turn, so the round is resolved straight away.
func (s *Session) Purchase(id roster.ID, row, col int) (TurnResult, error) {
	if s.Over() {
		return s.terminalResult(), nil
	}

	a, ok := s.catalog.Get(id)
	if !ok {
		return TurnResult{}, &ValidationError{Field: "archetype", Value: id, Reason: "unknown unit"}
	}
	if a.IsEnemy() {
		return TurnResult{}, &ValidationError{Field: "archetype", Value: id, Reason: "enemies cannot be bought"}
	}
	if err := s.validatePlayerCell(row, col); err != nil {
		return TurnResult{}, err
	}
	if !s.econ.CanAfford(a.Cost) {
		return TurnResult{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientGold, a.Name, a.Cost, s.econ.Gold)
	}
	if err := s.grid.Place(entity.New(a), row, col); err != nil {
		if errors.Is(err, grid.ErrOccupied) {
			return TurnResult{}, fmt.Errorf("%w at %s", ErrCellOccupied, grid.Pos{Row: row, Col: col})
		}
		return TurnResult{}, err
	}

	s.econ.Spend(a.Cost)
	s.econ.Turn++

	tr := TurnResult{Spent: a.Cost}
	s.record(&tr, telemetry.Event{Type: telemetry.EventPurchase, Actor: a.Name, Row: row, Col: col, Amount: a.Cost})
	s.resolve(&tr)
	return s.finish(&tr), nil
}

func (s *Session) validatePlayerCell(row, col int) error {
	if row < 0 || row >= s.grid.Rows() {
		return &ValidationError{Field: "row", Value: row, Reason: fmt.Sprintf("must be between 0 and %d", s.grid.Rows()-1)}
	}
	if pc := s.grid.PlayerColumns(); col < 0 || col >= pc {
		return &ValidationError{Field: "col", Value: col, Reason: fmt.Sprintf("must be between 0 and %d", pc-1)}
	}
	return nil
}

// resolve runs the round for a turn that was just used up, then pays income,
// adds threat and prepares the next cycle.
func (s *Session) resolve(tr *TurnResult) {
	round := AdvanceRound(s.grid, s.catalog, &s.econ, s.rng, s.cfg.Combat.KnockbackChancePct)
	s.record(tr, round.Events...)
	if round.Breach != nil {
		s.end(tr, OutcomeDefeat, round.Breach.Name)
		return
	}

	tr.Income = s.cfg.Escalation.PassiveIncome
	s.econ.Gold += tr.Income

	gain, overflow := addThreat(&s.econ, s.rng, s.cfg.Escalation.ThreatCap)
	tr.ThreatGain = gain
	for i := 0; i < overflow; i++ {
		s.spawn(tr, true)
	}

	s.beginCycle(tr)
}

// beginCycle runs before the player's next decision: win check, periodic
// escalation, then the pacing spawn.
func (s *Session) beginCycle(tr *TurnResult) {
	if s.econ.Won() {
		s.end(tr, OutcomeVictory, "")
		return
	}

	if s.econ.EscalationDue(s.cfg.Escalation.IntervalTurns) {
		n := Escalate(s.grid, s.catalog, &s.econ)
		tr.Escalated = true
		s.record(tr, telemetry.Event{Type: telemetry.EventEscalation, Amount: s.econ.DangerLevel})
		logJSON(s.logger, "info", "escalation", map[string]any{
			"session_id":      s.id,
			"turn":            s.econ.Turn,
			"danger_level":    s.econ.DangerLevel,
			"enemies_boosted": n,
		})
	}

	s.spawn(tr, false)
}

func (s *Session) spawn(tr *TurnResult, force bool) {
	sp, attempted, ok := SpawnRandomEnemy(s.grid, s.catalog, s.rng, force)
	if !attempted {
		return
	}
	if !ok {
		s.record(tr, telemetry.Event{Type: telemetry.EventSpawnFail, Actor: sp.Entity.Name, Row: sp.Pos.Row, Col: sp.Pos.Col})
		logJSON(s.logger, "debug", "spawn_blocked", map[string]any{
			"session_id": s.id,
			"enemy":      sp.Entity.Name,
			"row":        sp.Pos.Row,
			"forced":     force,
		})
		return
	}
	tr.Spawned++
	s.record(tr, telemetry.Event{Type: telemetry.EventSpawn, Actor: sp.Entity.Name, Row: sp.Pos.Row, Col: sp.Pos.Col, Amount: sp.Entity.MaxHealth})
	if force {
		logJSON(s.logger, "info", "forced_spawn", map[string]any{
			"session_id": s.id,
			"enemy":      sp.Entity.Name,
			"row":        sp.Pos.Row,
			"threat":     s.econ.ThreatLevel,
		})
	}
}

func (s *Session) end(tr *TurnResult, o Outcome, catalyst string) {
	s.outcome, s.catalyst = o, catalyst

	ev := telemetry.Event{Type: telemetry.EventVictory, Amount: s.econ.Killed}
	if o == OutcomeDefeat {
		ev = telemetry.Event{Type: telemetry.EventDefeat, Actor: catalyst}
	}
	s.record(tr, ev)

	logJSON(s.logger, "info", string(o), map[string]any{
		"session_id": s.id,
		"turn":       s.econ.Turn,
		"killed":     s.econ.Killed,
		"catalyst":   catalyst,
	})
}

func (s *Session) record(tr *TurnResult, evs ...telemetry.Event) {
	for _, ev := range evs {
		ev.Turn = s.econ.Turn
		stored, err := s.events.RecordEvent(ev)
		if err != nil {
			logJSON(s.logger, "error", "event_record_failed", map[string]any{
				"session_id": s.id,
				"type":       string(ev.Type),
				"error":      err.Error(),
			})
			stored = ev
		}
		tr.Events = append(tr.Events, stored)
	}
}

func (s *Session) finish(tr *TurnResult) TurnResult {
	tr.Turn = s.econ.Turn
	tr.Outcome, tr.Catalyst = s.outcome, s.catalyst
	return *tr
}

func (s *Session) terminalResult() TurnResult {
	return TurnResult{Turn: s.econ.Turn, Outcome: s.outcome, Catalyst: s.catalyst}
}

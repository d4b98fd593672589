package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arashnrim/desperate-defenders/internal/config"
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/grid"
	"github.com/arashnrim/desperate-defenders/internal/roster"

	"github.com/google/uuid"
)

const saveVersion = 1

type saveFile struct {
	Version   int          `json:"version"`
	SessionID string       `json:"session_id"`
	Outcome   savedOutcome `json:"outcome"`
	Economy   savedEconomy `json:"economy"`
	Field     [][]cell     `json:"field"`
}

type savedOutcome struct {
	State    Outcome `json:"state"`
	Catalyst string  `json:"catalyst"`
}

type savedEconomy struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	Economy
	Escalations int `json:"escalations"`
}

// cell writes an empty square as {} rather than null.
type cell struct {
	*entity.Entity
}

var emptyCell = []byte("{}")

func (c cell) MarshalJSON() ([]byte, error) {
	if c.Entity == nil {
		return emptyCell, nil
	}
	return json.Marshal(c.Entity)
}

func (c *cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		c.Entity = nil
		return nil
	}
	var e entity.Entity
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	if e == (entity.Entity{}) {
		c.Entity = nil
		return nil
	}
	if e.Archetype == "" {
		return errors.New("occupied cell has no id")
	}
	c.Entity = &e
	return nil
}

// Save encodes the session. RNG state is not part of a save.
func (s *Session) Save() ([]byte, error) {
	f := saveFile{
		Version:   saveVersion,
		SessionID: s.id,
		Outcome:   savedOutcome{State: s.outcome, Catalyst: s.catalyst},
		Economy: savedEconomy{
			Rows:        s.grid.Rows(),
			Columns:     s.grid.Columns(),
			Economy:     s.econ,
			Escalations: s.catalog.Escalations(),
		},
		Field: make([][]cell, s.grid.Rows()),
	}
	for r := range f.Field {
		f.Field[r] = make([]cell, s.grid.Columns())
		for c := range f.Field[r] {
			if e := s.grid.At(r, c); e != nil {
				f.Field[r][c] = cell{e.Clone()}
			}
		}
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return b, nil
}

// Load builds a new session from blob with this session's config and
// collaborators. The receiver is never modified, so a failed load leaves the
// current game intact.
func (s *Session) Load(blob []byte) (*Session, error) {
	return LoadSession(s.cfg, blob, Options{RNG: s.rng, Logger: s.logger, Events: s.events})
}

// LoadSession restores a saved game. The next-cycle preparation is not run
// again, so a save taken on an escalation turn does not escalate twice.
func LoadSession(cfg *config.Config, blob []byte, opts Options) (*Session, error) {
	s, err := newSession(cfg, opts)
	if err != nil {
		return nil, err
	}

	var raw rawSave
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, &LoadError{Part: PartHeader, Err: err}
	}
	if err := s.restoreHeader(raw); err != nil {
		return nil, &LoadError{Part: PartHeader, Err: err}
	}

	var econ savedEconomy
	if err := decodeSection(raw.Economy, &econ); err != nil {
		return nil, &LoadError{Part: PartEconomy, Err: err}
	}
	if err := s.restoreEconomy(econ); err != nil {
		return nil, &LoadError{Part: PartEconomy, Err: err}
	}

	var field [][]cell
	if err := decodeSection(raw.Field, &field); err != nil {
		return nil, &LoadError{Part: PartGrid, Err: err}
	}
	if err := s.restoreField(field); err != nil {
		return nil, &LoadError{Part: PartGrid, Err: err}
	}

	logJSON(s.logger, "info", "session_loaded", map[string]any{
		"session_id": s.id,
		"turn":       s.econ.Turn,
		"gold":       s.econ.Gold,
		"killed":     s.econ.Killed,
		"outcome":    string(s.outcome),
	})
	return s, nil
}

// rawSave splits a blob into its sections so a failure can be pinned on one.
type rawSave struct {
	Version   int             `json:"version"`
	SessionID string          `json:"session_id"`
	Outcome   savedOutcome    `json:"outcome"`
	Economy   json.RawMessage `json:"economy"`
	Field     json.RawMessage `json:"field"`
}

func decodeSection(b json.RawMessage, v any) error {
	if len(b) == 0 {
		return errors.New("missing")
	}
	return json.Unmarshal(b, v)
}

func (s *Session) restoreHeader(f rawSave) error {
	if f.Version != saveVersion {
		return fmt.Errorf("unsupported version %d", f.Version)
	}
	if _, err := uuid.Parse(f.SessionID); err != nil {
		return fmt.Errorf("session_id: %w", err)
	}
	switch f.Outcome.State {
	case OutcomeOngoing, OutcomeVictory, OutcomeDefeat:
	case "":
		f.Outcome.State = OutcomeOngoing
	default:
		return fmt.Errorf("unknown outcome %q", f.Outcome.State)
	}
	s.id = f.SessionID
	s.outcome, s.catalyst = f.Outcome.State, f.Outcome.Catalyst
	return nil
}

func (s *Session) restoreEconomy(e savedEconomy) error {
	if e.Rows < 1 || e.Columns < 2 {
		return fmt.Errorf("field size %dx%d", e.Rows, e.Columns)
	}
	if !e.Economy.valid() {
		return fmt.Errorf("counters out of range: %+v", e.Economy)
	}
	if e.Escalations < 0 {
		return fmt.Errorf("escalations %d", e.Escalations)
	}
	s.econ = e.Economy
	s.catalog.Replay(e.Escalations)
	s.grid = grid.New(e.Rows, e.Columns)
	return nil
}

func (s *Session) restoreField(field [][]cell) error {
	if len(field) != s.grid.Rows() {
		return fmt.Errorf("%d rows, want %d", len(field), s.grid.Rows())
	}
	for r, row := range field {
		if len(row) != s.grid.Columns() {
			return fmt.Errorf("row %d has %d cells, want %d", r, len(row), s.grid.Columns())
		}
		for c, cl := range row {
			if cl.Entity == nil {
				continue
			}
			if err := s.checkEntity(cl.Entity, c); err != nil {
				return fmt.Errorf("cell %s: %w", grid.Pos{Row: r, Col: c}, err)
			}
			if err := s.grid.Place(cl.Entity, r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) checkEntity(e *entity.Entity, col int) error {
	a, ok := s.catalog.Get(e.Archetype)
	if !ok {
		return fmt.Errorf("%w %q", roster.ErrUnknownArchetype, e.Archetype)
	}
	if e.Side != a.Side {
		return fmt.Errorf("%s has side %q, want %q", e.Archetype, e.Side, a.Side)
	}
	if e.Health <= 0 || e.Health > e.MaxHealth {
		return fmt.Errorf("%s health %d/%d", e.Archetype, e.Health, e.MaxHealth)
	}
	if e.MinDamage < 0 || e.MaxDamage < e.MinDamage {
		return fmt.Errorf("%s damage %d-%d", e.Archetype, e.MinDamage, e.MaxDamage)
	}
	if e.UpgradeCount < 0 {
		return fmt.Errorf("%s upgrade_count %d", e.Archetype, e.UpgradeCount)
	}
	if e.IsPlayer() && col >= s.grid.PlayerColumns() {
		return fmt.Errorf("%s placed outside the player half", e.Archetype)
	}
	if e.Name == "" {
		e.Name = a.Name
	}
	return nil
}

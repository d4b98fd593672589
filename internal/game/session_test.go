package game

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/arashnrim/desperate-defenders/internal/config"
	"github.com/arashnrim/desperate-defenders/internal/entity"
	"github.com/arashnrim/desperate-defenders/internal/roster"
	"github.com/arashnrim/desperate-defenders/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionForTest(t *testing.T, rng RNG, mutate func(*config.Config)) (*Session, *telemetry.MemoryRepository) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	events := telemetry.NewMemoryRepository()
	s, err := NewSession(&cfg, Options{RNG: rng, Events: events})
	require.NoError(t, err)
	return s, events
}

func setArchetypeHealth(cfg *config.Config, id roster.ID, health int) {
	for i := range cfg.Roster {
		if cfg.Roster[i].ID == id {
			cfg.Roster[i].Health = health
		}
	}
}

func TestNewSession_OpeningSpawn(t *testing.T) {
	s, _ := newSessionForTest(t, NewScriptedRNG(0, 4), nil)

	snap := s.RenderState()
	assert.Equal(t, 5, snap.Rows)
	assert.Equal(t, 7, snap.Columns)
	assert.Equal(t, 3, snap.PlayerColumns)
	require.NotNil(t, snap.At(4, 6))
	assert.Equal(t, roster.Zombie, snap.At(4, 6).ID)
	assert.Equal(t, roster.SideEnemy, snap.At(4, 6).Side)
	assert.Equal(t, Economy{Gold: 10, DangerLevel: 1, Target: 20}, snap.Economy)
	assert.Equal(t, OutcomeOngoing, snap.Outcome)
	assert.NotEmpty(t, s.ID())
}

func TestNewSession_RejectsBadConfig(t *testing.T) {
	_, err := NewSession(nil, Options{})
	require.Error(t, err)

	cfg := config.Default()
	cfg.Game.DangerLevel = 0
	_, err = NewSession(&cfg, Options{})
	require.Error(t, err)
}

func TestPurchase_ConsumesTurnAndResolvesRound(t *testing.T) {
	// opening spawn (Zombie, row 4); zombie bite roll; threat roll
	s, _ := newSessionForTest(t, NewScriptedRNG(0, 4, 0, 0), nil)

	res, err := s.Purchase(roster.Archer, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Turn)
	assert.Equal(t, 5, res.Spent)
	assert.Equal(t, 1, res.Income)
	assert.Equal(t, 1, res.ThreatGain)
	assert.Equal(t, OutcomeOngoing, res.Outcome)

	econ := s.Economy()
	assert.Equal(t, 1, econ.Turn)
	assert.Equal(t, 10-5+1, econ.Gold)
	assert.Equal(t, 1, econ.ThreatLevel)

	purchases := eventsOfType(res.Events, telemetry.EventPurchase)
	require.Len(t, purchases, 1)
	assert.Equal(t, 5, purchases[0].Amount)
	assert.Equal(t, 1, purchases[0].Turn)

	snap := s.RenderState()
	require.NotNil(t, snap.At(0, 1))
	assert.Equal(t, roster.Archer, snap.At(0, 1).ID)
	assert.Equal(t, 5, snap.At(0, 1).Health)
	require.NotNil(t, snap.At(4, 5), "zombie advanced one column")
}

func TestPurchase_Errors(t *testing.T) {
	tests := []struct {
		name      string
		id        roster.ID
		row, col  int
		gold      int
		wantErr   error
		wantField string
	}{
		{name: "not enough gold", id: roster.Cannon, row: 0, col: 0, gold: 6, wantErr: ErrInsufficientGold},
		{name: "occupied", id: roster.Wall, row: 1, col: 0, gold: 10, wantErr: ErrCellOccupied},
		{name: "enemy half", id: roster.Wall, row: 0, col: 3, gold: 10, wantField: "col"},
		{name: "negative column", id: roster.Wall, row: 0, col: -1, gold: 10, wantField: "col"},
		{name: "row out of range", id: roster.Wall, row: 5, col: 0, gold: 10, wantField: "row"},
		{name: "unknown unit", id: "DRAGN", row: 0, col: 0, gold: 10, wantField: "archetype"},
		{name: "enemy unit", id: roster.Zombie, row: 0, col: 0, gold: 10, wantField: "archetype"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, events := newSessionForTest(t, NewScriptedRNG(), func(c *config.Config) { c.Game.Gold = tt.gold })
			a, _ := s.catalog.Get(roster.Wall)
			require.NoError(t, s.grid.Place(entity.New(a), 1, 0))
			before := s.RenderState()
			eventsBefore, _ := events.GetEvents(0, nil)

			_, err := s.Purchase(tt.id, tt.row, tt.col)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantField != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
			}
			assert.Equal(t, before, s.RenderState(), "failed purchase must not change state")
			eventsAfter, _ := events.GetEvents(0, nil)
			assert.Len(t, eventsAfter, len(eventsBefore))
		})
	}
}

func TestEndTurn_ThreatOverflowForcesSpawn(t *testing.T) {
	// opening spawn (0,6); zombie bite roll; threat roll; forced spawn Werewolf row 2
	s, _ := newSessionForTest(t, NewScriptedRNG(0, 0, 0, 0, 1, 2), func(c *config.Config) {
		c.Game.ThreatLevel = 9
	})

	res := s.EndTurn()

	assert.Equal(t, 1, res.ThreatGain)
	assert.Equal(t, 1, res.Spawned)
	assert.Equal(t, 0, s.Economy().ThreatLevel)

	snap := s.RenderState()
	require.NotNil(t, snap.At(2, 6))
	assert.Equal(t, roster.Werewolf, snap.At(2, 6).ID)
	require.NotNil(t, snap.At(0, 5))
	assert.Equal(t, roster.Zombie, snap.At(0, 5).ID)
}

func TestEndTurn_PeriodicEscalation(t *testing.T) {
	s, _ := newSessionForTest(t, NewScriptedRNG(), func(c *config.Config) {
		c.Escalation.IntervalTurns = 2
	})

	first := s.EndTurn()
	assert.False(t, first.Escalated)

	second := s.EndTurn()
	assert.True(t, second.Escalated)
	require.Len(t, eventsOfType(second.Events, telemetry.EventEscalation), 1)
	assert.Equal(t, 2, s.Economy().DangerLevel)

	z := s.grid.At(0, 4)
	require.NotNil(t, z)
	assert.Equal(t, 15, z.MaxHealth)
	assert.Equal(t, 4, z.MinDamage)
	assert.Equal(t, 3, z.Reward)

	a, _ := s.catalog.Get(roster.Zombie)
	assert.Equal(t, 16, a.Health)
}

func TestEndTurn_Defeat(t *testing.T) {
	s, _ := newSessionForTest(t, NewScriptedRNG(), nil)

	for i := 0; i < 6; i++ {
		res := s.EndTurn()
		require.Equal(t, OutcomeOngoing, res.Outcome, "turn %d", res.Turn)
	}
	require.NotNil(t, s.grid.At(0, 0))

	res := s.EndTurn()
	assert.Equal(t, OutcomeDefeat, res.Outcome)
	assert.Equal(t, "Zombie", res.Catalyst)
	assert.Equal(t, 7, res.Turn)
	assert.Equal(t, 0, res.Income, "no income after a breach")
	assert.Equal(t, 16, s.Economy().Gold)
	require.Len(t, eventsOfType(res.Events, telemetry.EventDefeat), 1)

	again := s.EndTurn()
	assert.Equal(t, OutcomeDefeat, again.Outcome)
	assert.Equal(t, 7, again.Turn)
	assert.Empty(t, again.Events)

	outcome, catalyst := s.Outcome()
	assert.Equal(t, OutcomeDefeat, outcome)
	assert.Equal(t, "Zombie", catalyst)
}

func TestPurchase_Victory(t *testing.T) {
	// opening spawn (0,6); archer damage; threat roll
	s, _ := newSessionForTest(t, NewScriptedRNG(0, 0, 0, 0), func(c *config.Config) {
		c.Game.Target = 1
		setArchetypeHealth(c, roster.Zombie, 1)
	})

	res, err := s.Purchase(roster.Archer, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, OutcomeVictory, res.Outcome)
	require.Len(t, eventsOfType(res.Events, telemetry.EventKill), 1)
	require.Len(t, eventsOfType(res.Events, telemetry.EventVictory), 1)
	assert.Equal(t, 0, res.Spawned, "no pacing spawn after victory")

	econ := s.Economy()
	assert.Equal(t, 1, econ.Killed)
	assert.Equal(t, 10-5+2+1, econ.Gold)
	assert.Equal(t, 3, econ.ThreatLevel)

	t.Run("terminal calls are no-ops", func(t *testing.T) {
		before := s.RenderState()

		res, err := s.Purchase(roster.Wall, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, OutcomeVictory, res.Outcome)
		assert.Equal(t, 1, s.EndTurn().Turn)

		_, err = s.Upgrade(0, 0)
		assert.ErrorIs(t, err, ErrGameOver)

		assert.Equal(t, before, s.RenderState())
	})
}

func TestSession_EventsAndStats(t *testing.T) {
	s, _ := newSessionForTest(t, NewScriptedRNG(0, 0, 3, 0), nil)

	_, err := s.Purchase(roster.Archer, 0, 0)
	require.NoError(t, err)

	evs, err := s.Events()
	require.NoError(t, err)

	stats := telemetry.CalculateStats(evs)
	assert.Equal(t, 1, stats.EventCounts[telemetry.EventPurchase])
	assert.Equal(t, 5, stats.GoldSpent)
	assert.Equal(t, 4, stats.DamageDealt)
	assert.Equal(t, 1, stats.SpawnsByName["Zombie"])
}

func TestSession_Logging(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Game.ThreatLevel = 9

	_, err := NewSession(&cfg, Options{RNG: NewScriptedRNG(), Logger: log.New(&buf, "", 0)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"session_created"`)

	buf.Reset()
	s, err := NewSession(&cfg, Options{RNG: NewScriptedRNG(), Logger: log.New(&buf, "", 0)})
	require.NoError(t, err)
	s.EndTurn()
	assert.Contains(t, buf.String(), `"msg":"forced_spawn"`)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.HasPrefix(line, "{"), line)
	}
}

func TestSession_ShopListsDefenders(t *testing.T) {
	s, _ := newSessionForTest(t, NewScriptedRNG(), nil)

	var ids []roster.ID
	for _, a := range s.Shop() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []roster.ID{roster.Archer, roster.Wall, roster.Cannon}, ids)
}

func TestOutcome_Terminal(t *testing.T) {
	assert.False(t, OutcomeOngoing.Terminal())
	assert.True(t, OutcomeVictory.Terminal())
	assert.True(t, errors.Is(&LoadError{Part: PartGrid, Err: ErrNoEntity}, ErrNoEntity))
}

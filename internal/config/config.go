package config

import (
	"fmt"
	"os"

	"github.com/arashnrim/desperate-defenders/internal/roster"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version    string             `yaml:"version" json:"version"`
	Game       GameConfig         `yaml:"game" json:"game"`
	Combat     CombatConfig       `yaml:"combat" json:"combat"`
	Escalation EscalationConfig   `yaml:"escalation" json:"escalation"`
	Roster     []roster.Archetype `yaml:"roster" json:"roster"`
}

// GameConfig holds the starting values of a session.
type GameConfig struct {
	Rows        int `yaml:"rows" json:"rows"`
	Columns     int `yaml:"columns" json:"columns"`
	ThreatLevel int `yaml:"threat_level" json:"threat_level"`
	DangerLevel int `yaml:"danger_level" json:"danger_level"`
	Target      int `yaml:"target" json:"target"`
	Gold        int `yaml:"gold" json:"gold"`
}

type CombatConfig struct {
	KnockbackChancePct int `yaml:"knockback_chance_pct" json:"knockback_chance_pct"`
}

type EscalationConfig struct {
	IntervalTurns int `yaml:"interval_turns" json:"interval_turns"`
	ThreatCap     int `yaml:"threat_cap" json:"threat_cap"`
	PassiveIncome int `yaml:"passive_income" json:"passive_income"`
}

const (
	MaxThreatLevel = 10
	MaxDangerLevel = 10
)

func (g *GameConfig) ApplyDefaults() {
	if g.Rows == 0 {
		g.Rows = 5
	}
	if g.Columns == 0 {
		g.Columns = 7
	}
	if g.DangerLevel == 0 {
		g.DangerLevel = 1
	}
	if g.Target == 0 {
		g.Target = 20
	}
}

func (e *EscalationConfig) ApplyDefaults() {
	if e.IntervalTurns == 0 {
		e.IntervalTurns = 12
	}
	if e.ThreatCap == 0 {
		e.ThreatCap = 10
	}
}

func (c *Config) ApplyDefaults() {
	c.Game.ApplyDefaults()
	c.Escalation.ApplyDefaults()
	if len(c.Roster) == 0 {
		c.Roster = roster.Defaults()
	}
}

// Validate rejects values the engine cannot run with. Ranges follow the
// in-game settings menu: threat 0-10, danger 1-10.
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.Rows < 1:
		return fmt.Errorf("config: game.rows must be at least 1, got %d", g.Rows)
	case g.Columns < 2:
		return fmt.Errorf("config: game.columns must be at least 2, got %d", g.Columns)
	case g.ThreatLevel < 0 || g.ThreatLevel > MaxThreatLevel:
		return fmt.Errorf("config: game.threat_level must be between 0 and %d, got %d", MaxThreatLevel, g.ThreatLevel)
	case g.DangerLevel < 1 || g.DangerLevel > MaxDangerLevel:
		return fmt.Errorf("config: game.danger_level must be between 1 and %d, got %d", MaxDangerLevel, g.DangerLevel)
	case g.Target < 1:
		return fmt.Errorf("config: game.target must be at least 1, got %d", g.Target)
	case g.Gold < 0:
		return fmt.Errorf("config: game.gold must not be negative, got %d", g.Gold)
	}

	if p := c.Combat.KnockbackChancePct; p < 0 || p > 100 {
		return fmt.Errorf("config: combat.knockback_chance_pct must be between 0 and 100, got %d", p)
	}

	e := c.Escalation
	switch {
	case e.IntervalTurns < 1:
		return fmt.Errorf("config: escalation.interval_turns must be at least 1, got %d", e.IntervalTurns)
	case e.ThreatCap < 1:
		return fmt.Errorf("config: escalation.threat_cap must be at least 1, got %d", e.ThreatCap)
	case e.PassiveIncome < 0:
		return fmt.Errorf("config: escalation.passive_income must not be negative, got %d", e.PassiveIncome)
	}

	if _, err := roster.NewCatalog(c.Roster); err != nil {
		return fmt.Errorf("config: roster: %w", err)
	}
	return nil
}

// Clone returns a copy whose roster can be edited without touching c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Roster = make([]roster.Archetype, len(c.Roster))
	for i, a := range c.Roster {
		cp.Roster[i] = a.Copy()
	}
	return &cp
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes. A roster list in the file replaces the stock roster entirely.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	r := Default()
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Marshal renders the effective configuration as YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

package config

import "github.com/arashnrim/desperate-defenders/internal/roster"

// Default returns the stock game: a 5x7 field, 10 gold, 20 kills to win.
func Default() Config {
	return Config{
		Version: "1",
		Game: GameConfig{
			Rows:        5,
			Columns:     7,
			ThreatLevel: 0,
			DangerLevel: 1,
			Target:      20,
			Gold:        10,
		},
		Combat: CombatConfig{
			KnockbackChancePct: 50,
		},
		Escalation: EscalationConfig{
			IntervalTurns: 12,
			ThreatCap:     10,
			PassiveIncome: 1,
		},
		Roster: roster.Defaults(),
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Config {
	cfg := Default()
	cfg.Game.Gold = 20
	cfg.Game.Target = 15
	cfg.Escalation.IntervalTurns = 16
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Config {
	cfg := Default()
	cfg.Game.Gold = 8
	cfg.Game.Target = 30
	cfg.Game.DangerLevel = 2
	cfg.Escalation.IntervalTurns = 10
	return cfg
}

// Preset resolves a difficulty name; ok is false for unknown names.
func Preset(name string) (Config, bool) {
	switch name {
	case "", "normal", "default":
		return Default(), true
	case "casual":
		return Casual(), true
	case "hard":
		return Hard(), true
	}
	return Config{}, false
}

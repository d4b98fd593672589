package config

import (
	"os"
	"strconv"
)

// FromEnv builds a configuration from DD_DIFFICULTY and the DD_* overrides.
// Unknown difficulty names fall back to the defaults.
func FromEnv() Config {
	cfg, ok := Preset(os.Getenv("DD_DIFFICULTY"))
	if !ok {
		cfg = Default()
	}
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides game variables that are set in the environment.
// Unparseable values are ignored.
func ApplyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *int
	}{
		{"DD_ROWS", &cfg.Game.Rows},
		{"DD_COLUMNS", &cfg.Game.Columns},
		{"DD_THREAT_LEVEL", &cfg.Game.ThreatLevel},
		{"DD_DANGER_LEVEL", &cfg.Game.DangerLevel},
		{"DD_TARGET", &cfg.Game.Target},
		{"DD_GOLD", &cfg.Game.Gold},
	}
	for _, o := range overrides {
		if val, ok := getEnvInt(o.key); ok {
			*o.dst = val
		}
	}
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}

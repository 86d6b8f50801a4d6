package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	twominute "github.com/necrop/twominuteoed-build"
)

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags). An empty path
// loads from ENV + defaults only. Without configured dither points the
// historical schedule is used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if len(cfg.Dithers) == 0 {
		cfg.Dithers = append([]twominute.DitherPoint(nil), twominute.DefaultDitherPoints...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

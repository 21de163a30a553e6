package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LIGHTLOCK_CONFIG is set
//  3. env (prefix LIGHTLOCK_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LIGHTLOCK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: LIGHTLOCK_RATE_HZ, LIGHTLOCK_EPS_LUX, ...
	// Map env keys like LIGHTLOCK_JUMP_RATE -> jump_rate (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("LIGHTLOCK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "lightlock_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateHz <= 0 {
		return fmt.Errorf("%w: rate_hz must be positive, got %v", ErrInvalidConfig, c.RateHz)
	}
	if c.EpsLux < 0 {
		return fmt.Errorf("%w: eps_lux must not be negative, got %v", ErrInvalidConfig, c.EpsLux)
	}
	if c.JumpRate <= 0 {
		return fmt.Errorf("%w: jump_rate must be positive, got %v", ErrInvalidConfig, c.JumpRate)
	}
	if c.DerivWindow < 2 {
		return fmt.Errorf("%w: deriv_window must be at least 2, got %d", ErrInvalidConfig, c.DerivWindow)
	}
	if c.MaxSeconds <= 0 {
		return fmt.Errorf("%w: max_seconds must be positive, got %v", ErrInvalidConfig, c.MaxSeconds)
	}
	switch c.Sensor {
	case "auto", "proxy", "iio", "sim":
	default:
		return fmt.Errorf("%w: unknown sensor source %q", ErrInvalidConfig, c.Sensor)
	}
	return nil
}

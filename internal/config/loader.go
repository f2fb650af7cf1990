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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ZONESCORE_CONFIG is set
//  3. env (prefix ZONESCORE_)
//
// The framework section is validated before returning, so a malformed
// weight vector or threshold table aborts startup rather than a run.
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ZONESCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ZONESCORE_ADDR, ZONESCORE_QUEUE_SIZE, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ZONESCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "zonescore_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fail-fast checks the service section and the scoring
// framework. Framework validation delegates to the scorecard package via
// Framework(), so a config that loads is a config that can score.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for i, ds := range c.Datasets {
		if ds.Path == "" {
			return fmt.Errorf("%w: dataset %d has no path", ErrInvalidConfig, i)
		}
		switch ds.Format {
		case "csv", "json":
		default:
			return fmt.Errorf("%w: dataset %q has unknown format %q", ErrInvalidConfig, ds.Path, ds.Format)
		}
		switch ds.Source {
		case "behavioral", "survey", "supply":
		default:
			return fmt.Errorf("%w: dataset %q has unknown source %q", ErrInvalidConfig, ds.Path, ds.Source)
		}
	}
	if _, err := c.ScoringFramework(); err != nil {
		return err
	}
	return nil
}

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

// Environment conventions.
const (
	EnvPrefix     = "SWIMCONV_"
	EnvConfigPath = "SWIMCONV_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SWIMCONV_CONFIG is set
//  3. env (prefix SWIMCONV_)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SWIMCONV_JOB_QUEUE_SIZE -> job_queue_size. Keys are flat so the
	// delimiter never splits them.
	prefix := strings.ToLower(EnvPrefix)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), prefix)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New(ctx)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Package config defines the service configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// SWIMCONV_CONFIG, then SWIMCONV_* environment variables.
package config

import (
	"context"
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// JobQueueSize bounds the in-memory job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// WorkerCount sets the number of job workers.
	WorkerCount int `koanf:"worker_count"`

	// JobStoreSize caps how many jobs are kept before the oldest is evicted.
	JobStoreSize int `koanf:"job_store_size"`

	// DedupeSize sets the number of remembered request ids.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBatchSize caps the entries accepted by one batch or job request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// BatchParallelism bounds the goroutines used inside one batch.
	BatchParallelism int `koanf:"batch_parallelism"`

	// StrictEvents rejects event keys that are not <distance>_<stroke>.
	StrictEvents bool `koanf:"strict_events"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		JobQueueSize:     1024,
		WorkerCount:      runtime.NumCPU(),
		JobStoreSize:     10_000,
		DedupeSize:       50_000,
		MaxBatchSize:     500,
		BatchParallelism: runtime.NumCPU(),
		StrictEvents:     false,
	}
}

// Validate checks the values a running service depends on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	sizes := []struct {
		name string
		v    int
	}{
		{"job_queue_size", c.JobQueueSize},
		{"worker_count", c.WorkerCount},
		{"job_store_size", c.JobStoreSize},
		{"dedupe_size", c.DedupeSize},
		{"max_batch_size", c.MaxBatchSize},
		{"batch_parallelism", c.BatchParallelism},
	}
	for _, s := range sizes {
		if s.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, s.name, s.v)
		}
	}
	return nil
}

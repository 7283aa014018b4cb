package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds the number of kept jobs. Zero or negative keeps
// every job.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		s.capacity = n
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

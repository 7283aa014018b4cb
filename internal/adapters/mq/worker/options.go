// Package worker runs queued batch jobs through the conversion engine.
package worker

import (
	"github.com/okian/swimconv/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// withBusyHook lets the pool track how many workers are mid-job.
func withBusyHook(hook func(delta int)) Option {
	return func(w *InMemoryWorker) {
		w.busy = hook
	}
}

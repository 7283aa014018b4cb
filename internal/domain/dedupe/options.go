package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of remembered request ids.
// If maxSize > 0 the oldest claim is evicted when full.
// If maxSize <= 0 the deduper is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}

// Package dedupe maps client request ids to the job they created.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// Deduper remembers which job a request id produced so a retried submission
// returns the same job instead of creating another.
type Deduper interface {
	// Claim binds key to jobID unless key is already bound. It returns the
	// bound job id and whether this call created the binding.
	Claim(ctx context.Context, key, jobID string) (existing string, claimed bool)

	// Release forgets key so it can be claimed again. Used when the job it
	// pointed at never made it into the queue.
	Release(ctx context.Context, key string)

	// Replace rebinds key to newJobID only while it is still bound to
	// oldJobID, and reports whether it did. The rebound claim counts as the
	// newest for eviction.
	Replace(ctx context.Context, key, oldJobID, newJobID string) bool

	Size() int64
}

type claim struct {
	key   string
	jobID string
}

// inMemoryDeduper keeps claims in insertion order. When bounded, the oldest
// claim is evicted once maxSize is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	claims  map[string]*list.Element
	order   *list.List // front is oldest
	maxSize int        // <= 0 means unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
		claims:  make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, key, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.claims[key]; ok {
		return el.Value.(*claim).jobID, false
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.evictOldest()
	}
	d.claims[key] = d.order.PushBack(&claim{key: key, jobID: jobID})
	d.size.Store(int64(d.order.Len()))
	return jobID, true
}

func (d *inMemoryDeduper) Release(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.claims[key]; ok {
		d.order.Remove(el)
		delete(d.claims, key)
		d.size.Store(int64(d.order.Len()))
	}
}

func (d *inMemoryDeduper) Replace(_ context.Context, key, oldJobID, newJobID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.claims[key]
	if !ok || el.Value.(*claim).jobID != oldJobID {
		return false
	}
	el.Value.(*claim).jobID = newJobID
	d.order.MoveToBack(el)
	return true
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.claims, front.Value.(*claim).key)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

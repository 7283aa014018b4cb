// Package queue hands batch jobs from the API to the worker pool.
//
// The queue is a bounded in-memory channel. Enqueue never blocks: a full
// queue is reported to the caller, which turns it into backpressure.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Queue provides non-blocking enqueue and blocking dequeue.
type Queue interface {
	// Enqueue adds a job. It returns ErrQueueFull or ErrQueueClosed when the
	// job was not accepted.
	Enqueue(ctx context.Context, job *model.Job) error

	// Next blocks until a job is available. It returns false once the queue
	// is closed and drained, or ctx is done.
	Next(ctx context.Context) (*model.Job, bool)

	// Len returns the number of waiting jobs.
	Len(ctx context.Context) int

	// Cap returns the configured capacity.
	Cap() int

	// Close stops accepting jobs. Waiting jobs can still be drained with Next.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	jobs     chan *model.Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan *model.Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, job *model.Job) error {
	// Sends happen under the read lock so Close cannot close the channel
	// underneath them.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	select {
	case q.jobs <- job:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) Next(ctx context.Context) (*model.Job, bool) {
	// A cancelled consumer takes nothing, even when a job is ready.
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return nil, false
		}
		metrics.RecordQueueDequeue()
		q.observe()
		return job, true
	case <-ctx.Done():
		return nil, false
	}
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

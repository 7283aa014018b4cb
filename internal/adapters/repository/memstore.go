package repository

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/pkg/metrics"
)

const (
	defaultStoreCapacity         = 10_000
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is a bounded in-memory Store. Jobs are evicted oldest first
// once the capacity is reached, whatever their status. Callers always get
// copies, so stored jobs are never shared with a worker or handler.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*list.Element
	order *list.List // front is oldest

	capacity              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*list.Element),
		order:                 list.New(),
		capacity:              defaultStoreCapacity,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateJobStoreRecords(0)
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) Create(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[job.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, job.ID)
	}
	if s.capacity > 0 && s.order.Len() >= s.capacity {
		s.evictOldest()
	}
	s.byID[job.ID] = s.order.PushBack(job.Clone())
	return nil
}

func (s *MemoryStore) Update(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byID[job.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, job.ID)
	}
	el.Value = job.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return el.Value.(*model.Job).Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byID[id]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.byID, id)
	return true
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// evictOldest must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	front := s.order.Front()
	if front == nil {
		return
	}
	s.order.Remove(front)
	delete(s.byID, front.Value.(*model.Job).ID)
	metrics.RecordJobStoreEviction()
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateJobStoreRecords(s.Count(ctx))
			}
		}
	}()
}

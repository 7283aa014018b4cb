package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/pkg/logger"
	"github.com/okian/swimconv/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Converter runs one batch. *conversion.Engine satisfies it.
type Converter interface {
	BatchConvert(entries []conversion.Entry, from, to string, altitude bool) []conversion.BatchItem
}

// Queue is where workers take jobs from.
type Queue interface {
	Next(ctx context.Context) (*model.Job, bool)
}

// Store receives job status transitions.
type Store interface {
	Update(ctx context.Context, job *model.Job) error
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, the queue drains
	// after close, or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	converter Converter
	store     Store
	name      string
	busy      func(delta int)

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(queue Queue, converter Converter, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		converter: converter,
		store:     store,
		name:      "worker",
		busy:      func(int) {},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		job, ok := w.queue.Next(ctx)
		if !ok {
			return
		}
		w.process(ctx, job)
	}
}

func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, job *model.Job) {
	start := time.Now()
	w.busy(1)
	defer func() {
		w.busy(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	job.Status = model.JobRunning
	job.StartedAt = start
	if err := w.store.Update(ctx, job); err != nil {
		// Evicted before it ran; nobody can read the result.
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "job_evicted")
		w.logger.Warn(ctx, "dropping job missing from store", logger.String("job_id", job.ID), logger.Error(err))
		return
	}

	items, err := w.convert(job)
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = model.JobFailed
		job.Error = err.Error()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "batch_panic")
		w.logger.Error(ctx, "batch conversion failed", logger.String("job_id", job.ID), logger.Error(err))
	} else {
		job.Status = model.JobDone
		job.Items = items
	}
	metrics.RecordJob(string(job.Status))
	metrics.RecordBatchSize(len(job.Entries))

	if err := w.store.Update(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "job_evicted")
		w.logger.Warn(ctx, "job evicted before its result was stored", logger.String("job_id", job.ID), logger.Error(err))
		return
	}

	ok, failed := job.Counts()
	w.logger.Debug(ctx, "job finished",
		logger.String("job_id", job.ID),
		logger.String("status", string(job.Status)),
		logger.Int("succeeded", ok),
		logger.Int("failed", failed),
		logger.Duration("elapsed", time.Since(start)),
	)
}

// convert isolates the job from a panic inside the engine.
func (w *InMemoryWorker) convert(job *model.Job) (items []conversion.BatchItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic converting job %s: %v", job.ID, r)
		}
	}()
	return w.converter.BatchConvert(job.Entries, job.From, job.To, job.Altitude), nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A non-positive count
// defaults to runtime.NumCPU().
func NewPool(workerCount int, queue Queue, converter Converter, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	hook := func(delta int) {
		metrics.UpdateWorkerActiveCount(int(p.active.Add(int64(delta))))
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(queue, converter, store,
			WithName("worker-"+strconv.Itoa(i)),
			withBusyHook(hook),
		)
	}
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Active returns the number of workers currently running a job.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Shutdown closes the queue, lets workers drain it and waits for them.
// Workers still busy when ctx (or the pool timeout) expires are told to
// stop after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-drainCtx.Done():
			timedOut++
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
	}
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not drain: %w", timedOut, drainCtx.Err())
	}
	return nil
}

// Package service wires the conversion engine, the job pipeline and the
// metrics into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/swimconv/internal/adapters/mq/queue"
	workerpool "github.com/okian/swimconv/internal/adapters/mq/worker"
	repository "github.com/okian/swimconv/internal/adapters/repository"
	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/dedupe"
	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/internal/domain/plausibility"
	"github.com/okian/swimconv/internal/domain/standards"
	"github.com/okian/swimconv/internal/domain/swimtime"
	"github.com/okian/swimconv/internal/domain/types"
	"github.com/okian/swimconv/pkg/logger"
	"github.com/okian/swimconv/pkg/metrics"
)

// meteredConverter records per-item conversion metrics around the engine.
// Workers and the synchronous batch endpoint share it.
type meteredConverter struct {
	engine *conversion.Engine
}

func (m *meteredConverter) BatchConvert(entries []conversion.Entry, from, to string, altitude bool) []conversion.BatchItem {
	start := time.Now()
	items := m.engine.BatchConvert(entries, from, to, altitude)
	if len(items) > 0 {
		perItem := float64(time.Since(start).Microseconds()) / 1000 / float64(len(items))
		for _, it := range items {
			observe(it.Result, it.Err, perItem)
		}
	}
	return items
}

func observe(res conversion.Result, err error, latencyMs float64) {
	metrics.RecordConversionLatency(latencyMs)
	if err != nil {
		metrics.RecordConversionError(types.ErrorCode(err))
		return
	}
	metrics.RecordConversion(res.From.String(), res.To.String(), string(res.FactorSource), res.AltitudeAdjusted)
	if res.Warning != nil {
		metrics.RecordUnmappedConversion(res.From.String(), res.To.String())
	}
}

// Service implements the API dependencies for the conversion service.
type Service struct {
	mu sync.RWMutex
	// submitMu serialises the claim, store and enqueue steps of SubmitJob
	// so a request id is never bound to a job that does not exist yet.
	submitMu sync.Mutex

	// Core components
	engine    *conversion.Engine
	converter workerpool.Converter
	jobs      *repository.MemoryStore
	deduper   dedupe.Deduper
	queue     *jobqueue.InMemoryQueue
	pool      *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	jobStoreSize     int
	dedupeSize       int
	maxBatchSize     int
	batchParallelism int
	strictEvents     bool

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of job workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJobStoreSize caps the number of jobs kept for polling.
func WithJobStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.jobStoreSize = size
		}
	}
}

// WithDedupeSize sets the number of remembered request ids.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxBatchSize caps the entries accepted by one batch or job.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithBatchParallelism bounds the goroutines used inside one batch.
func WithBatchParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchParallelism = n
		}
	}
}

// WithStrictEvents makes the engine reject malformed event keys.
func WithStrictEvents(strict bool) Option {
	return func(s *Service) {
		s.strictEvents = strict
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Synchronous conversions work immediately; the
// job pipeline needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		queueSize:        1024,
		jobStoreSize:     10_000,
		dedupeSize:       50_000,
		maxBatchSize:     500,
		batchParallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	engineOpts := []conversion.Option{conversion.WithBatchParallelism(s.batchParallelism)}
	if s.strictEvents {
		engineOpts = append(engineOpts, conversion.WithStrictEvents())
	}
	s.engine = conversion.NewEngine(engineOpts...)
	s.converter = &meteredConverter{engine: s.engine}
	return s
}

// Start builds the job pipeline and starts the workers. The pipeline is
// detached from ctx cancellation: accepted jobs keep running until Stop
// drains them.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting conversion service...")

	runCtx := context.WithoutCancel(ctx)
	s.jobs = repository.NewMemoryStore(runCtx, repository.WithCapacity(s.jobStoreSize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.converter, s.jobs)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "conversion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("jobStoreSize", s.jobStoreSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("strictEvents", s.strictEvents),
	)
	return nil
}

// Stop drains queued jobs and shuts the pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping conversion service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	_ = s.jobs.Close()

	s.started = false
	s.logger.Info(ctx, "conversion service stopped")
}

// Convert converts a single time.
func (s *Service) Convert(ctx context.Context, req types.ConvertRequest) (conversion.Result, error) {
	start := time.Now()
	res, err := s.engine.Convert(req.Time, req.Event, req.FromCourse, req.ToCourse, req.AltitudeAdjustment)
	observe(res, err, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		s.logger.Debug(ctx, "conversion rejected",
			logger.String("time", req.Time),
			logger.String("event", req.Event),
			logger.Error(err),
		)
		return conversion.Result{}, err
	}
	if res.Warning != nil {
		s.logger.Warn(ctx, "unmapped conversion", logger.String("warning", res.Warning.String()))
	}
	return res, nil
}

// ConvertBatch converts a batch synchronously, preserving entry order.
func (s *Service) ConvertBatch(ctx context.Context, req types.BatchRequest) (types.BatchResponse, error) {
	if len(req.Times) > s.maxBatchSize {
		return types.BatchResponse{}, fmt.Errorf("%w: %d entries, limit %d", model.ErrBatchTooLarge, len(req.Times), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(req.Times))

	items := s.converter.BatchConvert(types.Entries(req.Times), req.FromCourse, req.ToCourse, req.AltitudeAdjustment)
	resp := types.NewBatchResponse(items)
	s.logger.Debug(ctx, "batch converted",
		logger.Int("entries", len(items)),
		logger.Int("failed", resp.Failed),
	)
	return resp, nil
}

// Standards returns the tier cuts for event and gender. Unknown pairs give
// an empty map.
func (s *Service) Standards(_ context.Context, event, gender string) types.StandardsResponse {
	cuts := standards.Lookup(event, gender)
	if len(cuts) == 0 {
		metrics.RecordStandardsLookup(metrics.OutcomeEmpty)
	} else {
		metrics.RecordStandardsLookup(metrics.OutcomeFound)
	}
	return types.StandardsResponse{Event: event, Gender: gender, Standards: cuts}
}

// CheckStandards reports which tiers a time meets. Non-SCY times are
// converted to SCY first and checked against the mapped event.
func (s *Service) CheckStandards(ctx context.Context, req types.StandardsCheckRequest) (types.StandardsCheckResponse, error) {
	from := req.Course
	if from == "" {
		from = string(course.SCY)
	}

	res, err := s.Convert(ctx, types.ConvertRequest{
		Time:       req.Time,
		Event:      req.Event,
		FromCourse: from,
		ToCourse:   string(course.SCY),
	})
	if err != nil {
		return types.StandardsCheckResponse{}, err
	}

	tiers := standards.Qualify(res.ConvertedSeconds, res.MappedEvent, req.Gender)
	if len(tiers) == 0 {
		metrics.RecordStandardsLookup(metrics.OutcomeEmpty)
	} else {
		metrics.RecordStandardsLookup(metrics.OutcomeFound)
	}
	return types.StandardsCheckResponse{
		Event:   res.MappedEvent,
		Gender:  req.Gender,
		SCYTime: res.ConvertedTime,
		Tiers:   tiers,
	}, nil
}

// Validate checks a time against the plausibility window of its distance.
func (s *Service) Validate(_ context.Context, req types.ValidateRequest) (types.ValidateResponse, error) {
	seconds, err := swimtime.Parse(req.Time)
	if err != nil {
		metrics.RecordConversionError(types.ErrorCode(err))
		return types.ValidateResponse{}, err
	}

	resp := types.ValidateResponse{
		Plausible: plausibility.IsPlausible(seconds, req.Event),
		Seconds:   seconds,
	}
	if w, ok := plausibility.WindowFor(req.Event); ok {
		resp.Min, resp.Max = &w.Min, &w.Max
	}
	if resp.Plausible {
		metrics.RecordPlausibilityCheck(metrics.OutcomePlausible)
	} else {
		metrics.RecordPlausibilityCheck(metrics.OutcomeRejected)
	}
	return resp, nil
}

// SubmitJob queues a batch for background conversion. A request id already
// seen returns the job it created instead of a new one.
func (s *Service) SubmitJob(ctx context.Context, req types.BatchRequest) (types.JobAccepted, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.JobAccepted{}, model.ErrNotStarted
	}
	if len(req.Times) == 0 {
		return types.JobAccepted{}, model.ErrEmptyBatch
	}
	if len(req.Times) > s.maxBatchSize {
		return types.JobAccepted{}, fmt.Errorf("%w: %d entries, limit %d", model.ErrBatchTooLarge, len(req.Times), s.maxBatchSize)
	}
	if _, err := course.Parse(req.FromCourse); err != nil {
		return types.JobAccepted{}, err
	}
	if _, err := course.Parse(req.ToCourse); err != nil {
		return types.JobAccepted{}, err
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	id := uuid.NewString()
	if req.RequestID != "" {
		if existing, claimed := s.deduper.Claim(ctx, req.RequestID, id); !claimed {
			if job, err := s.jobs.Get(ctx, existing); err == nil {
				metrics.RecordJobDuplicate()
				s.logger.Debug(ctx, "duplicate job submission",
					logger.String("request_id", req.RequestID),
					logger.String("job_id", existing),
				)
				return types.JobAccepted{JobID: existing, Status: string(job.Status), Duplicate: true}, nil
			}
			// The earlier job was evicted from the store; this submission
			// takes the request id over.
			if !s.deduper.Replace(ctx, req.RequestID, existing, id) {
				return types.JobAccepted{}, fmt.Errorf("%w: %s", model.ErrClaimConflict, req.RequestID)
			}
		}
	}

	job := &model.Job{
		ID:          id,
		RequestID:   req.RequestID,
		From:        req.FromCourse,
		To:          req.ToCourse,
		Altitude:    req.AltitudeAdjustment,
		Entries:     types.Entries(req.Times),
		Status:      model.JobQueued,
		SubmittedAt: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		return types.JobAccepted{}, fmt.Errorf("store job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		s.jobs.Delete(ctx, id)
		metrics.RecordErrorByComponent("service", "backpressure")
		s.logger.Warn(ctx, "job rejected", logger.String("job_id", id), logger.Error(err))
		if errors.Is(err, jobqueue.ErrQueueFull) || errors.Is(err, jobqueue.ErrQueueClosed) {
			return types.JobAccepted{}, fmt.Errorf("%w: %w", model.ErrBackpressure, err)
		}
		return types.JobAccepted{}, err
	}

	s.logger.Debug(ctx, "job queued",
		logger.String("job_id", id),
		logger.Int("entries", len(job.Entries)),
	)
	return types.JobAccepted{JobID: id, Status: string(model.JobQueued)}, nil
}

func (s *Service) release(ctx context.Context, requestID string) {
	if requestID != "" {
		s.deduper.Release(ctx, requestID)
	}
}

// Job returns a submitted job by id.
func (s *Service) Job(ctx context.Context, id string) (types.JobResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.JobResponse{}, model.ErrNotStarted
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.JobResponse{}, fmt.Errorf("%w: %s", model.ErrJobNotFound, id)
		}
		return types.JobResponse{}, err
	}
	return types.NewJobResponse(job), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"jobStoreSize":     s.jobStoreSize,
		"dedupeSize":       s.dedupeSize,
		"maxBatchSize":     s.maxBatchSize,
		"batchParallelism": s.batchParallelism,
		"strictEvents":     s.strictEvents,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stored := s.jobs.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedJobs"] = stored
		stats["activeWorkers"] = s.pool.Active()
		stats["requestIDs"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateJobStoreRecords(stored)
	}

	return stats
}

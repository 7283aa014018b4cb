// Package metrics provides Prometheus metrics for the swimconv service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	OutcomeFound     = "found"
	OutcomeEmpty     = "empty"
	OutcomePlausible = "plausible"
	OutcomeRejected  = "rejected"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	sizeBuckets      []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Conversion engine
	conversions         *prometheus.CounterVec
	conversionErrors    *prometheus.CounterVec
	unmappedConversions *prometheus.CounterVec
	altitudeAdjustments prometheus.Counter
	conversionLatency   prometheus.Histogram
	batchSize           prometheus.Histogram

	// Lookups
	standardsLookups   *prometheus.CounterVec
	plausibilityChecks *prometheus.CounterVec

	// Job queue
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Jobs
	jobs              *prometheus.CounterVec
	jobsDuplicate     prometheus.Counter
	jobStoreRecords   prometheus.Gauge
	jobStoreEvictions prometheus.Counter

	// Workers
	workerActive  prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide collectors

// customRegistry keeps the default Go and process collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // collectors must exist before the first Record call
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "swimconv",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		sizeBuckets:      prometheus.ExponentialBuckets(1, 2, 10),
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) register() { //nolint:funlen // one statement per collector
	auto := promauto.With(m.registry)

	m.conversions = auto.NewCounterVec(m.counter("conversions_total",
		"Successful conversions by course pair and factor source"), []string{"from", "to", "source"})
	m.conversionErrors = auto.NewCounterVec(m.counter("conversion_errors_total",
		"Rejected conversions by error kind"), []string{"kind"})
	m.unmappedConversions = auto.NewCounterVec(m.counter("unmapped_conversions_total",
		"Conversions that fell through to the 1.0 factor"), []string{"from", "to"})
	m.altitudeAdjustments = auto.NewCounter(m.counter("altitude_adjustments_total",
		"Conversions with the altitude multiplier applied"))
	m.conversionLatency = auto.NewHistogram(m.histogram("conversion_latency_milliseconds",
		"Latency of a single conversion or batch in milliseconds", m.histogramBuckets))
	m.batchSize = auto.NewHistogram(m.histogram("batch_size",
		"Number of entries per batch conversion", m.sizeBuckets))

	m.standardsLookups = auto.NewCounterVec(m.counter("standards_lookups_total",
		"Standards lookups by outcome"), []string{"outcome"})
	m.plausibilityChecks = auto.NewCounterVec(m.counter("plausibility_checks_total",
		"Plausibility checks by outcome"), []string{"outcome"})

	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum job queue capacity"))
	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Jobs waiting in the queue"))
	m.queueUtilization = auto.NewGauge(m.gauge("queue_utilization_ratio", "Queue size divided by capacity"))
	m.queueEnqueued = auto.NewCounter(m.counter("queue_enqueue_total", "Jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("queue_dequeue_total", "Jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Jobs rejected by a full or closed queue"))

	m.jobs = auto.NewCounterVec(m.counter("jobs_total", "Jobs by terminal status"), []string{"status"})
	m.jobsDuplicate = auto.NewCounter(m.counter("jobs_duplicate_total", "Job submissions answered from an earlier request_id"))
	m.jobStoreRecords = auto.NewGauge(m.gauge("job_store_records", "Jobs currently held by the job store"))
	m.jobStoreEvictions = auto.NewCounter(m.counter("job_store_evictions_total", "Jobs evicted to respect the store bound"))

	m.workerActive = auto.NewGauge(m.gauge("worker_active_count", "Workers currently running a job"))
	m.workerLatency = auto.NewHistogram(m.histogram("worker_processing_latency_milliseconds",
		"Time a worker spends on one job in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counter("worker_errors_total", "Jobs a worker could not complete"))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counter("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total",
		"Errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_milliseconds",
		"Average GC pause in milliseconds", m.histogramBuckets))
}

// RecordConversion counts a successful conversion.
func RecordConversion(from, to, source string, altitude bool) {
	globalManager.conversions.WithLabelValues(from, to, source).Inc()
	if altitude {
		globalManager.altitudeAdjustments.Inc()
	}
}

// RecordUnmappedConversion counts a conversion with no factor data.
func RecordUnmappedConversion(from, to string) {
	globalManager.unmappedConversions.WithLabelValues(from, to).Inc()
}

// RecordConversionError counts a rejected conversion.
func RecordConversionError(kind string) {
	globalManager.conversionErrors.WithLabelValues(kind).Inc()
}

// RecordConversionLatency observes conversion latency in milliseconds.
func RecordConversionLatency(latencyMs float64) {
	globalManager.conversionLatency.Observe(latencyMs)
}

// RecordBatchSize observes the number of entries in a batch.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// RecordStandardsLookup counts a standards lookup.
func RecordStandardsLookup(outcome string) {
	globalManager.standardsLookups.WithLabelValues(outcome).Inc()
}

// RecordPlausibilityCheck counts a plausibility check.
func RecordPlausibilityCheck(outcome string) {
	globalManager.plausibilityChecks.WithLabelValues(outcome).Inc()
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

func RecordQueueEnqueue()      { globalManager.queueEnqueued.Inc() }
func RecordQueueDequeue()      { globalManager.queueDequeued.Inc() }
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// RecordJob counts a job reaching status.
func RecordJob(status string) {
	globalManager.jobs.WithLabelValues(status).Inc()
}

// RecordJobDuplicate counts a replayed job submission.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// UpdateJobStoreRecords sets the number of stored jobs.
func UpdateJobStoreRecords(n int) {
	globalManager.jobStoreRecords.Set(float64(n))
}

// RecordJobStoreEviction counts an evicted job.
func RecordJobStoreEviction() {
	globalManager.jobStoreEvictions.Inc()
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency observes how long one job took.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the service collectors live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

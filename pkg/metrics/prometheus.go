// Package metrics provides Prometheus metrics for the fitscore service.
package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Category label values accepted by RecordCategoryScore.
var categories = map[string]struct{}{ //nolint:gochecknoglobals // fixed label set
	"education":  {},
	"experience": {},
	"skills":     {},
}

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	scoreBuckets   []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Evaluation pipeline
	evaluationsSubmitted prometheus.Counter
	evaluationsDuplicate prometheus.Counter
	evaluationsScored    prometheus.Counter
	evaluationsFailed    prometheus.Counter
	scoringLatency       prometheus.Histogram
	ratingErrors         prometheus.Counter

	// Score distribution
	categoryScore *prometheus.HistogramVec
	totalScore    prometheus.Histogram

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Result store
	storeRecords      prometheus.Gauge
	storeWriteLatency prometheus.Histogram
	storeReadLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure rebuilds the global manager on a fresh registry with opts, for
// example WithNamespace from process configuration. Call it once at
// startup, before any component records metrics or GetRegistry is served.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
	return registry
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "fitscore",
		subsystem:      "",
		latencyBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		scoreBuckets:   prometheus.LinearBuckets(10, 10, 10),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts(m.counterOpts(name, help))
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

//nolint:funlen // one place for every collector
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluationsSubmitted = auto.NewCounter(m.counterOpts(
		"evaluations_submitted_total", "Evaluations accepted onto the queue"))
	m.evaluationsDuplicate = auto.NewCounter(m.counterOpts(
		"evaluations_duplicate_total", "Evaluations rejected as duplicates"))
	m.evaluationsScored = auto.NewCounter(m.counterOpts(
		"evaluations_scored_total", "Evaluations scored successfully"))
	m.evaluationsFailed = auto.NewCounter(m.counterOpts(
		"evaluations_failed_total", "Evaluations that could not be scored"))
	m.scoringLatency = auto.NewHistogram(m.histogramOpts(
		"scoring_latency_milliseconds", "Time spent computing one scoring result", m.latencyBuckets))
	m.ratingErrors = auto.NewCounter(m.counterOpts(
		"rating_errors_total", "Inputs rejected because of an unknown rating"))

	m.categoryScore = auto.NewHistogramVec(m.histogramOpts(
		"category_score", "Distribution of category scores", m.scoreBuckets), []string{"category"})
	m.totalScore = auto.NewHistogram(m.histogramOpts(
		"total_score", "Distribution of weighted total scores", m.scoreBuckets))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Evaluations waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Evaluations enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Evaluations dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts(
		"queue_enqueue_errors_total", "Enqueue attempts rejected by backpressure"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured scoring workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently scoring"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Time from dequeue to stored result", m.latencyBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Worker processing errors"))

	m.storeRecords = auto.NewGauge(m.gaugeOpts("store_records_total", "Evaluation records held by the store"))
	m.storeWriteLatency = auto.NewHistogram(m.histogramOpts(
		"store_write_latency_milliseconds", "Result store write latency", m.latencyBuckets))
	m.storeReadLatency = auto.NewHistogram(m.histogramOpts(
		"store_read_latency_milliseconds", "Result store read latency", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Errors by component"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordEvaluationSubmitted increments the accepted evaluations counter.
func RecordEvaluationSubmitted() { globalManager.evaluationsSubmitted.Inc() }

// RecordEvaluationDuplicate increments the duplicate evaluations counter.
func RecordEvaluationDuplicate() { globalManager.evaluationsDuplicate.Inc() }

// RecordEvaluationScored increments the scored evaluations counter.
func RecordEvaluationScored() { globalManager.evaluationsScored.Inc() }

// RecordEvaluationFailed increments the failed evaluations counter.
func RecordEvaluationFailed() { globalManager.evaluationsFailed.Inc() }

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.scoringLatency.Observe(latencyMs) }

// RecordRatingError increments the unknown rating counter.
func RecordRatingError() { globalManager.ratingErrors.Inc() }

// RecordCategoryScore observes a category score.
func RecordCategoryScore(category string, score int) error {
	if _, ok := categories[category]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	globalManager.categoryScore.WithLabelValues(category).Observe(float64(score))
	return nil
}

// RecordTotalScore observes a weighted total score.
func RecordTotalScore(score int) { globalManager.totalScore.Observe(float64(score)) }

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// WorkerStarted marks one worker as busy.
func WorkerStarted() { globalManager.workerActiveCount.Inc() }

// WorkerFinished marks one worker as idle again.
func WorkerFinished() { globalManager.workerActiveCount.Dec() }

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateStoreRecords sets the number of stored evaluation records.
func UpdateStoreRecords(count int) { globalManager.storeRecords.Set(float64(count)) }

// RecordStoreWriteLatency records a result store write.
func RecordStoreWriteLatency(latencyMs float64) { globalManager.storeWriteLatency.Observe(latencyMs) }

// RecordStoreReadLatency records a result store read.
func RecordStoreReadLatency(latencyMs float64) { globalManager.storeReadLatency.Observe(latencyMs) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// CollectSystemMetrics samples heap usage and goroutine count.
func CollectSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.Alloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

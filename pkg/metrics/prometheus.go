// Package metrics provides Prometheus metrics for the marquee service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Battles
	battlesResolved *prometheus.CounterVec
	battleTeamSize  prometheus.Histogram

	// Trivia
	questionsServed       *prometheus.CounterVec
	cacheRefreshes        *prometheus.CounterVec
	cacheRefreshDuration  prometheus.Histogram
	cacheSize             prometheus.Gauge
	cacheRecordsRejected  prometheus.Counter
	storeQueryLatency     *prometheus.HistogramVec
	mirrorOperationErrors *prometheus.CounterVec

	// Session recorder
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueue            prometheus.Counter
	queueDequeue            prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	sessionsRecorded        prometheus.Counter
	workerActiveCount       prometheus.Gauge
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "marquee",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.battlesResolved = m.counterVec("battles_resolved_total", "Team battles resolved, by winner", "winner")
	m.battleTeamSize = m.histogram("battle_team_size", "Roster size of submitted battle teams", []float64{1, 2, 3, 4, 5, 6, 8, 10})

	m.questionsServed = m.counterVec("trivia_questions_served_total", "Trivia questions served, by source", "source")
	m.cacheRefreshes = m.counterVec("trivia_cache_refreshes_total", "Question cache refresh attempts, by outcome", "outcome")
	m.cacheRefreshDuration = m.histogram("trivia_cache_refresh_duration_milliseconds", "Duration of bulk question fetches in milliseconds", m.histogramBuckets)
	m.cacheSize = m.gauge("trivia_cache_size", "Questions held in the current cache snapshot")
	m.cacheRecordsRejected = m.counter("trivia_cache_records_rejected_total", "Raw question records discarded during ingestion")
	m.storeQueryLatency = m.histogramVec("store_query_latency_milliseconds", "Relational store query latency in milliseconds", "operation")
	m.mirrorOperationErrors = m.counterVec("trivia_mirror_errors_total", "Snapshot mirror failures, by operation", "operation")

	m.queueSize = m.gauge("recorder_queue_size", "Battle records waiting to be persisted")
	m.queueCapacity = m.gauge("recorder_queue_capacity", "Capacity of the battle record queue")
	m.queueEnqueue = m.counter("recorder_queue_enqueued_total", "Battle records enqueued")
	m.queueDequeue = m.counter("recorder_queue_dequeued_total", "Battle records dequeued by workers")
	m.queueEnqueueErrors = m.counter("recorder_queue_enqueue_errors_total", "Battle records dropped at enqueue")
	m.sessionsRecorded = m.counter("recorder_sessions_recorded_total", "Battle outcomes persisted as game sessions")
	m.workerActiveCount = m.gauge("recorder_workers_active", "Running recorder workers")
	m.workerErrors = m.counter("recorder_worker_errors_total", "Recorder worker persistence failures")
	m.workerProcessingLatency = m.histogram("recorder_worker_latency_milliseconds", "Time to persist one battle record in milliseconds", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// Battle metrics.

// RecordBattleResolved counts a resolved battle by its winner label.
func RecordBattleResolved(winner string) {
	globalManager.battlesResolved.WithLabelValues(winner).Inc()
}

// RecordBattleTeamSize observes the size of one submitted roster.
func RecordBattleTeamSize(size int) {
	globalManager.battleTeamSize.Observe(float64(size))
}

// Trivia metrics.

// RecordQuestionsServed adds n to the questions served from source.
func RecordQuestionsServed(source string, n int) {
	globalManager.questionsServed.WithLabelValues(source).Add(float64(n))
}

// RecordCacheRefresh counts a refresh attempt with outcome success, partial or failure.
func RecordCacheRefresh(outcome string, durationMs float64) {
	globalManager.cacheRefreshes.WithLabelValues(outcome).Inc()
	globalManager.cacheRefreshDuration.Observe(durationMs)
}

// UpdateCacheSize sets the size of the current snapshot.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// RecordCacheRecordsRejected counts raw records dropped at ingestion.
func RecordCacheRecordsRejected(n int) {
	globalManager.cacheRecordsRejected.Add(float64(n))
}

// RecordStoreQueryLatency observes a relational store call.
func RecordStoreQueryLatency(operation string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordMirrorError counts a failed snapshot mirror load or save.
func RecordMirrorError(operation string) {
	globalManager.mirrorOperationErrors.WithLabelValues(operation).Inc()
}

// Recorder queue and worker metrics.

// UpdateQueueSize sets the current recorder queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the recorder queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the dropped-record counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordSessionRecorded increments the persisted-session counter.
func RecordSessionRecorded() {
	globalManager.sessionsRecorded.Inc()
}

// UpdateWorkerActiveCount sets the number of running recorder workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

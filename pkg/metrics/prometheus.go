// Package metrics provides Prometheus metrics for the scorecard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scorecard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	reportsGenerated   prometheus.Counter
	reportErrors       prometheus.Counter
	pipelineDuration   prometheus.Histogram
	rowsIngested       prometheus.Counter
	rowsRejected       prometheus.Counter
	malformedFields    *prometheus.CounterVec
	candidatesDecided  *prometheus.CounterVec
	cohortsNeedingCare *prometheus.GaugeVec
	remindersPending   prometheus.Gauge

	// Report cache metrics
	reportCacheSize      prometheus.Gauge
	reportCacheEvictions prometheus.Counter

	// Async job metrics
	queueDepth    prometheus.Gauge
	queueRejected *prometheus.CounterVec
	jobLatency    prometheus.Histogram
	jobWait       prometheus.Histogram
	workerCount   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scorecard",
		subsystem:        "pipeline",
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reportsGenerated = m.counter("reports_generated_total", "Total number of reports generated")
	m.reportErrors = m.counter("report_errors_total", "Total number of report requests that failed")
	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_milliseconds",
		Help:      "Histogram of full pipeline run time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.rowsIngested = m.counter("rows_ingested_total", "Total number of input rows seen by the normalizer")
	m.rowsRejected = m.counter("rows_rejected_total", "Total number of rows rejected for a missing candidate id")
	m.malformedFields = m.counterVec("malformed_fields_total", "Malformed field values degraded to null, by field", "field")
	m.candidatesDecided = m.counterVec("candidates_total", "Candidate summaries produced, by decision", "decision")
	m.cohortsNeedingCare = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohorts_needing_attention",
		Help:      "Cohorts flagged as needing attention in the latest report, by key",
	}, []string{"key"})
	m.remindersPending = m.gauge("reminders_pending", "Outstanding scorecards in the latest report")

	m.reportCacheSize = m.gauge("report_cache_size", "Number of reports held in memory")
	m.reportCacheEvictions = m.counter("report_cache_evictions_total", "Reports evicted from the in-memory cache")

	m.queueDepth = m.gauge("queue_depth", "Report jobs waiting in the queue")
	m.queueRejected = m.counterVec("queue_rejected_total", "Report jobs refused by the queue, by reason", "reason")
	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_duration_milliseconds",
		Help:      "Time spent processing one report job in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.jobWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_wait_milliseconds",
		Help:      "Time a report job waited in the queue in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.workerCount = m.gauge("worker_count", "Number of report workers")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.rateLimited = m.counterVec("http_rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordReportGenerated increments the reports counter.
func RecordReportGenerated() {
	globalManager.reportsGenerated.Inc()
}

// RecordReportError increments the failed reports counter.
func RecordReportError() {
	globalManager.reportErrors.Inc()
}

// RecordPipelineDuration records a pipeline run time in milliseconds.
func RecordPipelineDuration(ms float64) {
	globalManager.pipelineDuration.Observe(ms)
}

// RecordIngest adds the row counts from one normalizer pass.
func RecordIngest(rows, rejected int, malformed map[string]int) {
	globalManager.rowsIngested.Add(float64(rows))
	globalManager.rowsRejected.Add(float64(rejected))
	for field, n := range malformed {
		globalManager.malformedFields.WithLabelValues(field).Add(float64(n))
	}
}

// RecordDecision increments the candidate counter for a decision label.
func RecordDecision(decision string) {
	globalManager.candidatesDecided.WithLabelValues(decision).Inc()
}

// UpdateCohortsNeedingAttention sets the flagged cohort count for a key.
func UpdateCohortsNeedingAttention(key string, count int) {
	globalManager.cohortsNeedingCare.WithLabelValues(key).Set(float64(count))
}

// UpdateRemindersPending sets the outstanding scorecard count.
func UpdateRemindersPending(count int) {
	globalManager.remindersPending.Set(float64(count))
}

// UpdateReportCacheSize sets the number of cached reports.
func UpdateReportCacheSize(size int) {
	globalManager.reportCacheSize.Set(float64(size))
}

// RecordReportCacheEviction increments the eviction counter.
func RecordReportCacheEviction() {
	globalManager.reportCacheEvictions.Inc()
}

// UpdateQueueDepth sets the number of queued report jobs.
func UpdateQueueDepth(n int) {
	globalManager.queueDepth.Set(float64(n))
}

// RecordQueueRejected increments the rejected job counter for reason.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordJobLatency records report job processing time in milliseconds.
func RecordJobLatency(ms float64) {
	globalManager.jobLatency.Observe(ms)
}

// RecordJobWait records how long a job sat in the queue in milliseconds.
func RecordJobWait(ms float64) {
	globalManager.jobWait.Observe(ms)
}

// UpdateWorkerCount sets the number of report workers.
func UpdateWorkerCount(n int) {
	globalManager.workerCount.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited increments the rate limiter rejection counter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

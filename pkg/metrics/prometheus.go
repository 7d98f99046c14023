// Package metrics provides Prometheus metrics for the kickout board service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts. Latencies are in milliseconds, confidence in percent.
var (
	defaultLatencyBuckets    = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // fixed bucket layout
	defaultConfidenceBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}        //nolint:gochecknoglobals // fixed bucket layout
)

// Manager manages all Prometheus metrics for the kickout service.
type Manager struct {
	namespace         string
	subsystem         string
	latencyBuckets    []float64
	confidenceBuckets []float64
	constLabels       map[string]string
	metricPrefix      string
	registerer        prometheus.Registerer

	// Board metrics
	kickoutsRecorded     *prometheus.CounterVec
	kickoutsRejected     *prometheus.CounterVec
	kickoutsDuplicate    prometheus.Counter
	predictions          *prometheus.CounterVec
	predictionConfidence prometheus.Histogram
	patternBroken        *prometheus.CounterVec
	simpleViewSwitches   *prometheus.CounterVec
	clears               prometheus.Counter
	logSize              prometheus.Gauge

	// Store metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Notification queue metrics
	notifyQueueSize     prometheus.Gauge
	notifyQueueCapacity prometheus.Gauge
	notifyEnqueued      prometheus.Counter
	notifyDropped       prometheus.Counter
	notifyPublished     *prometheus.CounterVec
	notifyErrors        prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:         "kickout",
		subsystem:         "board",
		latencyBuckets:    defaultLatencyBuckets,
		confidenceBuckets: defaultConfidenceBuckets,
		constLabels:       make(map[string]string),
		registerer:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registerer).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registerer).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registerer).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registerer).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registerer).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.kickoutsRecorded = m.counterVec("kickouts_recorded_total", "Kickouts appended to the log by outcome", "result")
	m.kickoutsRejected = m.counterVec("kickouts_rejected_total", "Kickouts rejected by validation", "reason")
	m.kickoutsDuplicate = m.counter("kickouts_duplicate_total", "Kickout submissions dropped by idempotency key")
	m.predictions = m.counterVec("predictions_total", "Predictions computed by state", "state")
	m.predictionConfidence = m.histogram("prediction_confidence_percent", "Confidence of non-building predictions", m.confidenceBuckets)
	m.patternBroken = m.counterVec("pattern_broken_total", "Pattern broken alerts by outcome", "outcome")
	m.simpleViewSwitches = m.counterVec("simple_view_switches_total", "Automatic simple view switches", "change")
	m.clears = m.counter("clears_total", "Confirmed clear-data operations")
	m.logSize = m.gauge("log_size", "Number of kickouts in the log")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency in milliseconds", m.latencyBuckets, "driver", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Store operation errors", "driver", "op")

	m.notifyQueueSize = m.gauge("notify_queue_size", "Signals waiting for delivery")
	m.notifyQueueCapacity = m.gauge("notify_queue_capacity", "Capacity of the signal queue")
	m.notifyEnqueued = m.counter("notify_enqueued_total", "Signals accepted by the queue")
	m.notifyDropped = m.counter("notify_dropped_total", "Signals dropped because the queue was full or closed")
	m.notifyPublished = m.counterVec("notify_published_total", "Signals delivered by kind", "kind")
	m.notifyErrors = m.counter("notify_errors_total", "Signal delivery errors")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets, "endpoint", "method", "status_code")

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", m.latencyBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.latencyBuckets)
}

// RecordKickout counts a kickout appended to the log.
func RecordKickout(won bool) {
	result := "lost"
	if won {
		result = "won"
	}
	globalManager.kickoutsRecorded.WithLabelValues(result).Inc()
}

// RecordRejection counts a validation rejection.
func RecordRejection(reason string) {
	globalManager.kickoutsRejected.WithLabelValues(reason).Inc()
}

// RecordDuplicate counts a submission dropped by idempotency key.
func RecordDuplicate() {
	globalManager.kickoutsDuplicate.Inc()
}

// RecordPrediction counts a prediction and observes its confidence.
func RecordPrediction(building bool, confidence int) {
	if building {
		globalManager.predictions.WithLabelValues("building").Inc()
		return
	}
	globalManager.predictions.WithLabelValues("ready").Inc()
	globalManager.predictionConfidence.Observe(float64(confidence))
}

// RecordPatternBroken counts a contradiction that fired or was suppressed.
func RecordPatternBroken(fired bool) {
	outcome := "suppressed"
	if fired {
		outcome = "fired"
	}
	globalManager.patternBroken.WithLabelValues(outcome).Inc()
}

// RecordSimpleViewSwitch counts an automatic simple view change.
func RecordSimpleViewSwitch(change string) {
	globalManager.simpleViewSwitches.WithLabelValues(change).Inc()
}

// RecordClear counts a confirmed clear.
func RecordClear() {
	globalManager.clears.Inc()
}

// UpdateLogSize sets the log size gauge.
func UpdateLogSize(n int) {
	globalManager.logSize.Set(float64(n))
}

// RecordStoreLatency observes a store operation latency in milliseconds.
func RecordStoreLatency(driver, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(driver, op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(driver, op string) {
	globalManager.storeErrors.WithLabelValues(driver, op).Inc()
}

// UpdateNotifyQueueSize sets the number of queued signals.
func UpdateNotifyQueueSize(n int) {
	globalManager.notifyQueueSize.Set(float64(n))
}

// UpdateNotifyQueueCapacity sets the signal queue capacity.
func UpdateNotifyQueueCapacity(n int) {
	globalManager.notifyQueueCapacity.Set(float64(n))
}

// RecordNotifyEnqueued counts an accepted signal.
func RecordNotifyEnqueued() {
	globalManager.notifyEnqueued.Inc()
}

// RecordNotifyDropped counts a dropped signal.
func RecordNotifyDropped() {
	globalManager.notifyDropped.Inc()
}

// RecordNotifyPublished counts a delivered signal.
func RecordNotifyPublished(kind string) {
	globalManager.notifyPublished.WithLabelValues(kind).Inc()
}

// RecordNotifyError counts a failed delivery.
func RecordNotifyError() {
	globalManager.notifyErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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

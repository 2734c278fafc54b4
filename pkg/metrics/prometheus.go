// Package metrics provides Prometheus metrics for the qscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the qscore service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring pass metrics
	passesTotal     *prometheus.CounterVec
	passLatency     prometheus.Histogram
	lastPassItems   prometheus.Gauge
	itemsScored     *prometheus.CounterVec
	itemsSuppressed *prometheus.CounterVec
	itemsHidden     prometheus.Counter
	diagnostics     *prometheus.CounterVec

	// Settings metrics
	configAdjustments    *prometheus.CounterVec
	settingsWrites       *prometheus.CounterVec
	settingsQueryLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "qscore",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
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
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.passesTotal = auto.NewCounterVec(
		m.counterOpts("passes_total", "Total number of scoring passes by strategy"),
		[]string{"strategy"},
	)
	m.passLatency = auto.NewHistogram(
		m.histogramOpts("pass_latency_milliseconds", "Scoring pass latency in milliseconds"),
	)
	m.lastPassItems = auto.NewGauge(
		m.gaugeOpts("last_pass_items", "Number of items in the most recent scoring pass"),
	)
	m.itemsScored = auto.NewCounterVec(
		m.counterOpts("items_scored_total", "Total number of items scored by strategy and quality class"),
		[]string{"strategy", "class"},
	)
	m.itemsSuppressed = auto.NewCounterVec(
		m.counterOpts("items_suppressed_total", "Total number of ratio scores replaced by the floor or significance guard"),
		[]string{"reason"},
	)
	m.itemsHidden = auto.NewCounter(
		m.counterOpts("items_hidden_total", "Total number of items hidden below the quality threshold"),
	)
	m.diagnostics = auto.NewCounterVec(
		m.counterOpts("diagnostics_total", "Total number of per-item diagnostics by kind"),
		[]string{"kind"},
	)

	m.configAdjustments = auto.NewCounterVec(
		m.counterOpts("config_adjustments_total", "Total number of configuration values clamped or ignored"),
		[]string{"kind"},
	)
	m.settingsWrites = auto.NewCounterVec(
		m.counterOpts("settings_writes_total", "Total number of settings writes by backend and result"),
		[]string{"backend", "result"},
	)
	m.settingsQueryLatency = auto.NewHistogramVec(
		m.histogramOpts("settings_query_latency_milliseconds", "Settings store operation latency in milliseconds"),
		[]string{"backend", "op"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
}

// RecordPass records a completed scoring pass.
func RecordPass(strategy string, items int, latencyMs float64) {
	globalManager.passesTotal.WithLabelValues(strategy).Inc()
	globalManager.passLatency.Observe(latencyMs)
	globalManager.lastPassItems.Set(float64(items))
}

// RecordItemScored increments the scored items counter.
func RecordItemScored(strategy, class string) {
	globalManager.itemsScored.WithLabelValues(strategy, class).Inc()
}

// RecordItemSuppressed increments the suppressed items counter.
// reason is either "floor" or "significance".
func RecordItemSuppressed(reason string) {
	globalManager.itemsSuppressed.WithLabelValues(reason).Inc()
}

// RecordItemsHidden adds n to the hidden items counter.
func RecordItemsHidden(n int) {
	globalManager.itemsHidden.Add(float64(n))
}

// RecordDiagnostic increments the diagnostics counter.
func RecordDiagnostic(kind string) {
	globalManager.diagnostics.WithLabelValues(kind).Inc()
}

// RecordConfigAdjustment increments the configuration adjustments counter.
func RecordConfigAdjustment(kind string) {
	globalManager.configAdjustments.WithLabelValues(kind).Inc()
}

// RecordSettingsWrite records a settings write outcome.
func RecordSettingsWrite(backend, result string) {
	globalManager.settingsWrites.WithLabelValues(backend, result).Inc()
}

// RecordSettingsQueryLatency records settings store operation latency.
func RecordSettingsQueryLatency(backend, op string, latencyMs float64) {
	globalManager.settingsQueryLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

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

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Manager holds every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset loading
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	tableRows           *prometheus.GaugeVec
	unknownLabels       *prometheus.CounterVec

	// Engine
	computeDuration *prometheus.HistogramVec
	activeMembers   *prometheus.GaugeVec

	// Snapshot store
	snapshotPublishes prometheus.Counter
	snapshotCount     prometheus.Gauge
	snapshotLastUnix  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System
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

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mizan",
		subsystem:        "engine",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_loads_total",
		Help:      "Dataset loads by year key and outcome",
	}, []string{"year", "outcome"})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_duration_milliseconds",
		Help:      "Time spent reading and decoding the CSV tables of one year selection",
		Buckets:   m.histogramBuckets,
	})

	m.tableRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_rows",
		Help:      "Rows loaded per table for the last load of a year key",
	}, []string{"year", "table"})

	m.unknownLabels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_labels_total",
		Help:      "Records skipped because a label was not recognised",
	}, []string{"field"})

	m.computeDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_milliseconds",
		Help:      "Time spent computing a report component",
		Buckets:   m.histogramBuckets,
	}, []string{"component"})

	m.activeMembers = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_members",
		Help:      "Active faculty members per year key",
	}, []string{"year"})

	m.snapshotPublishes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_publishes_total",
		Help:      "Reports published to the snapshot store",
	})

	m.snapshotCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_count",
		Help:      "Year keys currently held by the snapshot store",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix time of the last snapshot publish",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and error type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap memory in use in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordDatasetLoad counts a load of yearKey with its outcome and duration.
func (m *Manager) RecordDatasetLoad(yearKey, outcome string, d time.Duration) {
	m.datasetLoads.WithLabelValues(yearKey, outcome).Inc()
	m.datasetLoadDuration.Observe(ms(d))
}

// UpdateTableRows sets the row count of one table.
func (m *Manager) UpdateTableRows(yearKey, table string, rows int) {
	m.tableRows.WithLabelValues(yearKey, table).Set(float64(rows))
}

// RecordUnknownLabel counts a record skipped for an unrecognised label.
func (m *Manager) RecordUnknownLabel(field string) {
	m.unknownLabels.WithLabelValues(field).Inc()
}

// RecordComputeDuration observes the duration of one report component.
func (m *Manager) RecordComputeDuration(component string, d time.Duration) {
	m.computeDuration.WithLabelValues(component).Observe(ms(d))
}

// UpdateActiveMembers sets the active member count of a year key.
func (m *Manager) UpdateActiveMembers(yearKey string, n int) {
	m.activeMembers.WithLabelValues(yearKey).Set(float64(n))
}

// RecordSnapshotPublish counts a publish and updates the store size.
func (m *Manager) RecordSnapshotPublish(count int, at time.Time) {
	m.snapshotPublishes.Inc()
	m.snapshotCount.Set(float64(count))
	m.snapshotLastUnix.Set(float64(at.Unix()))
}

// RecordHTTPRequest counts a request and observes its duration in ms.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a rejected request.
func (m *Manager) RecordRateLimited() {
	m.httpRateLimited.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystem samples heap usage and the goroutine count.
func (m *Manager) UpdateSystem() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	m.systemMemoryUsage.Set(float64(stats.HeapAlloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Package-level helpers record on the global manager.

// RecordDatasetLoad records a dataset load on the global manager.
func RecordDatasetLoad(yearKey, outcome string, d time.Duration) {
	globalManager.RecordDatasetLoad(yearKey, outcome, d)
}

// UpdateTableRows sets a table row count on the global manager.
func UpdateTableRows(yearKey, table string, rows int) {
	globalManager.UpdateTableRows(yearKey, table, rows)
}

// RecordUnknownLabel counts an unrecognised label on the global manager.
func RecordUnknownLabel(field string) {
	globalManager.RecordUnknownLabel(field)
}

// RecordComputeDuration observes a component duration on the global manager.
func RecordComputeDuration(component string, d time.Duration) {
	globalManager.RecordComputeDuration(component, d)
}

// UpdateActiveMembers sets the active member gauge on the global manager.
func UpdateActiveMembers(yearKey string, n int) {
	globalManager.UpdateActiveMembers(yearKey, n)
}

// RecordSnapshotPublish records a publish on the global manager.
func RecordSnapshotPublish(count int, at time.Time) {
	globalManager.RecordSnapshotPublish(count, at)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited counts a rejected request on the global manager.
func RecordRateLimited() {
	globalManager.RecordRateLimited()
}

// RecordErrorByComponent records an error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// UpdateSystem samples runtime stats on the global manager.
func UpdateSystem() {
	globalManager.UpdateSystem()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the recruitment portal client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the portal client and the stub backend report to.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Backend API calls made by the client.
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// State machine health.
	staleResponses *prometheus.CounterVec
	otpTransitions *prometheus.CounterVec
	cacheRefreshes *prometheus.CounterVec
	cacheItems     *prometheus.GaugeVec
	ledgerEntries  prometheus.Gauge

	// Stub backend request accounting.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	stubInventory       *prometheus.GaugeVec

	// Process health of whichever binary is running.
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "portal",
		subsystem:        "client",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_requests_total",
		Help:        "Backend API calls by endpoint, method and outcome (ok, server_error, transport_error)",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "outcome"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "api_request_duration_milliseconds",
		Help:        "Backend API call latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method"})

	m.staleResponses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stale_responses_total",
		Help:        "Completions discarded because a newer request for the same operation was issued",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.otpTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "otp_transitions_total",
		Help:        "OTP session status transitions",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.cacheRefreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cache_refresh_total",
		Help:        "Dashboard cache refreshes by cache and outcome",
		ConstLabels: m.constLabels,
	}, []string{"cache", "outcome"})

	m.cacheItems = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cache_items",
		Help:        "Items currently held by each dashboard cache",
		ConstLabels: m.constLabels,
	}, []string{"cache"})

	m.ledgerEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ledger_entries",
		Help:        "Applications recorded in the local application ledger",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_requests_total",
		Help:        "Requests served by the stub backend by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_request_duration_milliseconds",
		Help:        "Stub backend request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.stubInventory = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "records",
		Help:        "Records held by the stub backend by kind (users, jobs, applications, sessions)",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordAPIRequest records one backend call made by the client.
func (m *Manager) RecordAPIRequest(endpoint, method, outcome string, durationMs float64) {
	m.apiRequests.WithLabelValues(endpoint, method, outcome).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordAPIRequest records one backend call made by the client.
func RecordAPIRequest(endpoint, method, outcome string, durationMs float64) {
	globalManager.RecordAPIRequest(endpoint, method, outcome, durationMs)
}

// RecordStaleResponse counts a discarded out-of-order completion.
func RecordStaleResponse(operation string) {
	globalManager.staleResponses.WithLabelValues(operation).Inc()
}

// RecordOTPTransition counts an OTP session entering status.
func RecordOTPTransition(status string) {
	globalManager.otpTransitions.WithLabelValues(status).Inc()
}

// RecordCacheRefresh counts a cache refresh and, on success, updates the item gauge.
func RecordCacheRefresh(cache string, ok bool, items int) {
	outcome := "error"
	if ok {
		outcome = "ok"
		globalManager.cacheItems.WithLabelValues(cache).Set(float64(items))
	}
	globalManager.cacheRefreshes.WithLabelValues(cache, outcome).Inc()
}

// UpdateLedgerEntries sets the ledger size gauge.
func UpdateLedgerEntries(count int) {
	globalManager.ledgerEntries.Set(float64(count))
}

// RecordHTTPRequest records a request served by the stub backend.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateStubInventory sets the stub record gauge for kind.
func UpdateStubInventory(kind string, count int) {
	globalManager.stubInventory.WithLabelValues(kind).Set(float64(count))
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.goroutineCount.Set(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

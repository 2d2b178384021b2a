package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "waymark").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "waymark",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the dev server.
type metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	manifestRequests  *prometheus.CounterVec
	routesDiscovered  prometheus.Gauge
	discoveryDuration prometheus.Histogram
	reloadClients     prometheus.Gauge
	reloadsSent       prometheus.Counter
	wsErrors          *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request handling duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		manifestRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_requests_total",
			Help:        "Total number of manifest fetches by manifest file",
			ConstLabels: config.ConstLabels,
		}, []string{"manifest"}),

		routesDiscovered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes_discovered",
			Help:        "Number of routes found by the last discovery pass",
			ConstLabels: config.ConstLabels,
		}),

		discoveryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "discovery_duration_seconds",
			Help:        "Route discovery duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		reloadClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reload_clients",
			Help:        "Number of connected live reload clients",
			ConstLabels: config.ConstLabels,
		}),

		reloadsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_sent_total",
			Help:        "Total number of reload notifications broadcast",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// every request.
//
// Metrics collected:
//   - waymark_requests_total: Counter of requests by path and status
//   - waymark_request_duration_seconds: Histogram of request handling duration
//   - waymark_manifest_requests_total: Counter of manifest fetches (when RecordManifestRequest is called)
//   - waymark_routes_discovered: Gauge of routes found by discovery (when RecordDiscovery is called)
//   - waymark_discovery_duration_seconds: Histogram of route discovery duration
//   - waymark_reload_clients: Gauge of connected live reload clients
//   - waymark_reloads_sent_total: Counter of reload notifications broadcast
//   - waymark_websocket_errors_total: Counter of WebSocket errors
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	))
//
//	// Expose metrics endpoint
//	r.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "" {
				path = "/"
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Time the request
			start := time.Now()
			next.ServeHTTP(ww, r)
			duration := time.Since(start).Seconds()

			m.requestDuration.WithLabelValues(path).Observe(duration)

			// A handler that never writes still responds 200.
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
		})
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordManifestRequest records a fetch of one of the generated manifests.
// Call this from the serving code with the manifest file name.
func RecordManifestRequest(name string) {
	if globalMetrics != nil {
		globalMetrics.manifestRequests.WithLabelValues(name).Inc()
	}
}

// RecordDiscovery records the result of a route discovery pass.
func RecordDiscovery(routes int, elapsed time.Duration) {
	if globalMetrics != nil {
		globalMetrics.routesDiscovered.Set(float64(routes))
		globalMetrics.discoveryDuration.Observe(elapsed.Seconds())
	}
}

// RecordReloadClientConnect records a live reload client connecting.
func RecordReloadClientConnect() {
	if globalMetrics != nil {
		globalMetrics.reloadClients.Inc()
	}
}

// RecordReloadClientDisconnect records a live reload client disconnecting.
func RecordReloadClientDisconnect() {
	if globalMetrics != nil {
		globalMetrics.reloadClients.Dec()
	}
}

// RecordReloadBroadcast records a reload notification being broadcast.
func RecordReloadBroadcast() {
	if globalMetrics != nil {
		globalMetrics.reloadsSent.Inc()
	}
}

// RecordWebSocketError records a WebSocket error.
func RecordWebSocketError(errorType string) {
	if globalMetrics != nil {
		globalMetrics.wsErrors.WithLabelValues(errorType).Inc()
	}
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector returns the metrics for use in custom registrations.
// This allows collecting Waymark metrics alongside other application metrics.
type Collector struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	manifestRequests  *prometheus.CounterVec
	routesDiscovered  prometheus.Gauge
	discoveryDuration prometheus.Histogram
	reloadClients     prometheus.Gauge
	reloadsSent       prometheus.Counter
	wsErrors          *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		requestsTotal:     globalMetrics.requestsTotal,
		requestDuration:   globalMetrics.requestDuration,
		manifestRequests:  globalMetrics.manifestRequests,
		routesDiscovered:  globalMetrics.routesDiscovered,
		discoveryDuration: globalMetrics.discoveryDuration,
		reloadClients:     globalMetrics.reloadClients,
		reloadsSent:       globalMetrics.reloadsSent,
		wsErrors:          globalMetrics.wsErrors,
	}
}

// Package middleware provides observability middleware for Waymark servers.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware
//
// Both middlewares use the standard func(http.Handler) http.Handler shape
// and can be mounted on any router that accepts it.
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware traces every request, recording the method,
// path, and response status on a server span. The span context is injected
// into the request context so downstream calls inherit the trace.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects metrics about the dev server:
//   - waymark_requests_total: Requests served by path and status
//   - waymark_request_duration_seconds: Request handling duration histogram
//   - waymark_manifest_requests_total: Manifest fetches by manifest file
//   - waymark_routes_discovered: Routes found by the last discovery pass
//   - waymark_reload_clients: Currently connected live reload clients
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
//
// # Context Propagation
//
// The tracing middleware stores the active span on the request context,
// so handlers and clients created from it inherit the trace:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    row := db.QueryRowContext(r.Context(), "SELECT ...")
//	    req, _ := http.NewRequestWithContext(r.Context(), "GET", url, nil)
//	}
package middleware

// Package middleware provides HTTP middleware for the vdiff server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request metrics
//
// Both are plain func(http.Handler) http.Handler and are meant to be
// mounted on a chi router, whose route pattern (e.g. /mounts/{id}) is
// used as the low-cardinality route label.
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("vdiff"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given.
//
// # Prometheus Metrics
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// Metrics collected:
//   - vdiff_http_requests_total: Counter by route, method and status class
//   - vdiff_http_request_duration_seconds: Histogram by route and method
package middleware

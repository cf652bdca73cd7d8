// Package middleware provides HTTP middleware for the mirror server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request metrics
//
// Both are plain func(http.Handler) http.Handler values and plug into a chi
// router with Use:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("vtree-mirror")))
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//
// Span names and metric labels use the chi route pattern ("/dispatch/{handle}/{event}")
// rather than the raw path, which keeps cardinality bounded.
package middleware

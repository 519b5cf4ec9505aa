// Package observability provides structured logging, Prometheus metrics and
// health checks for the catalog service.
//
// Logging uses stdlib slog with a JSON handler behind a small wrapper that
// supports field chaining:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("user_id", id).Info("user registered")
//
// Metrics are registered on a dedicated Prometheus registry and exposed via
// Handler(); HTTP traffic is instrumented by wrapping the router with
// Metrics.Middleware.
//
// The health checker drives both the public /health endpoint (liveness,
// always OK while the process serves) and /health/ready (pings PostgreSQL
// and, when configured, Redis).
package observability

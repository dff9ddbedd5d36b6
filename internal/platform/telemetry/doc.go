// Package telemetry groups the service's operational observability.
//
// # Operational Metrics (telemetry/metrics)
//
// Operational metrics capture system health and performance:
//   - gRPC request counts and latency by method and status code
//   - Dependency probe attempts by outcome
//   - Dependency gate resolution state
//
// Metrics are exposed in Prometheus format on an optional HTTP listener.
// Tracing is configured separately by platform/otel.
package telemetry

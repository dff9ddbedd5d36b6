// Package metrics provides operational metrics collection.
//
// # gRPC Interceptor
//
// The unary interceptor records:
//   - Request count by method and code
//   - Request latency by method
//
// # Startup
//
// The dependency gate reports each probe attempt and its single resolution,
// so a scrape during startup shows whether the service is still waiting on
// the platform.
//
// Everything is registered on a private registry and served by Handler.
package metrics

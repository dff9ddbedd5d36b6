// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values keeps startup and shutdown budgets discoverable.
package timeouts

import "time"

// GateDeadline bounds how long startup waits for platform dependencies.
const GateDeadline = 30 * time.Second

// GatePollInterval is the delay between dependency probes.
const GatePollInterval = 2 * time.Second

// GRPCRequest caps the time allowed for a single call to the platform.
const GRPCRequest = 2 * time.Second

// ReadHeader limits how long the metrics HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

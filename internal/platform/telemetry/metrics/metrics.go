package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/navfiles/internal/platform/timeouts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "navfiles"

// Gate resolution labels.
const (
	GatePending = "pending"
	GateReady   = "ready"
	GateFailed  = "failed"
)

// Metrics holds the service collectors and their registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	gateProbes      *prometheus.CounterVec
	gateState       *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests handled, by method and status code.",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		gateProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "probes_total",
			Help:      "Dependency probe attempts by outcome.",
		}, []string{"outcome"}),
		gateState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "state",
			Help:      "1 for the current dependency gate state, 0 otherwise.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.gateProbes, m.gateState)
	m.gateState.WithLabelValues(GatePending).Set(1)
	m.gateState.WithLabelValues(GateReady).Set(0)
	m.gateState.WithLabelValues(GateFailed).Set(0)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveProbe counts one dependency probe attempt.
func (m *Metrics) ObserveProbe(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.gateProbes.WithLabelValues(outcome).Inc()
}

// ObserveGateResolution marks state as the current gate state.
func (m *Metrics) ObserveGateResolution(state string) {
	for _, label := range []string{GatePending, GateReady, GateFailed} {
		value := 0.0
		if label == state {
			value = 1
		}
		m.gateState.WithLabelValues(label).Set(value)
	}
}

// UnaryServerInterceptor records request counts and latency.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		method := methodName(info.FullMethod)
		m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
		return resp, err
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return m.ServeListener(ctx, listener)
}

// ServeListener exposes /metrics on listener until ctx is cancelled.
func (m *Metrics) ServeListener(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}

func methodName(fullMethod string) string {
	if idx := strings.LastIndex(fullMethod, "/"); idx >= 0 {
		return fullMethod[idx+1:]
	}
	return fullMethod
}

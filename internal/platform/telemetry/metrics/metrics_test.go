package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestObserveProbeCountsOutcomes(t *testing.T) {
	m := New()
	m.ObserveProbe(errors.New("missing"))
	m.ObserveProbe(errors.New("missing"))
	m.ObserveProbe(nil)

	if got := testutil.ToFloat64(m.gateProbes.WithLabelValues("failure")); got != 2 {
		t.Fatalf("failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.gateProbes.WithLabelValues("success")); got != 1 {
		t.Fatalf("successes = %v, want 1", got)
	}
}

func TestObserveGateResolutionIsExclusive(t *testing.T) {
	m := New()
	if got := testutil.ToFloat64(m.gateState.WithLabelValues(GatePending)); got != 1 {
		t.Fatalf("pending = %v, want 1 before resolution", got)
	}
	m.ObserveGateResolution(GateReady)
	if got := testutil.ToFloat64(m.gateState.WithLabelValues(GateReady)); got != 1 {
		t.Fatalf("ready = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.gateState.WithLabelValues(GatePending)); got != 0 {
		t.Fatalf("pending = %v, want 0", got)
	}
}

func TestUnaryServerInterceptorRecordsCode(t *testing.T) {
	m := New()
	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/navfiles.v1.NavigationFilesService/UploadMap"}

	_, _ = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.InvalidArgument, "bad name")
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("interceptor changed error: %v", err)
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("UploadMap", "OK")); got != 1 {
		t.Fatalf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("UploadMap", "InvalidArgument")); got != 1 {
		t.Fatalf("invalid count = %v, want 1", got)
	}
}

func TestServeListenerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveProbe(nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.ServeListener(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	if err != nil {
		cancel()
		t.Fatalf("get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), "navfiles_gate_probes_total") {
		cancel()
		t.Fatalf("metrics body missing gate probes:\n%s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for metrics server shutdown")
	}
}

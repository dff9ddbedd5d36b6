package directory

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePlatform struct {
	health *health.Server
	conn   *grpc.ClientConn
}

func startFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial platform: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.GracefulStop()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})
	return &fakePlatform{health: healthServer, conn: conn}
}

func TestLookupMissingServiceIsNotFound(t *testing.T) {
	platform := startFakePlatform(t)
	dir := New(platform.conn, time.Second)

	_, err := dir.Lookup(context.Background(), MemoryService)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Name != MemoryService {
		t.Fatalf("err = %#v, want LookupError for %s", err, MemoryService)
	}
}

func TestLookupNotServingIsRecoverable(t *testing.T) {
	platform := startFakePlatform(t)
	platform.health.SetServingStatus(MemoryService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	dir := New(platform.conn, time.Second)

	_, err := dir.Lookup(context.Background(), MemoryService)
	if err == nil {
		t.Fatal("expected lookup error")
	}
	if errors.Is(err, ErrServiceNotFound) {
		t.Fatal("registered but not serving should not be reported missing")
	}
}

func TestLookupRegisteredService(t *testing.T) {
	platform := startFakePlatform(t)
	platform.health.SetServingStatus(MemoryService, grpc_health_v1.HealthCheckResponse_SERVING)
	dir := New(platform.conn, time.Second)

	handle, err := dir.Lookup(context.Background(), MemoryService)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if handle.Name != MemoryService || handle.Conn == nil {
		t.Fatalf("handle = %+v", handle)
	}
}

func TestLookupRejectsEmptyName(t *testing.T) {
	dir := New(nil, 0)
	if _, err := dir.Lookup(context.Background(), " "); err == nil {
		t.Fatal("expected empty name error")
	}
	if _, err := dir.Lookup(context.Background(), MemoryService); err == nil {
		t.Fatal("expected missing connection error")
	}
}

func TestProbeRequiresEveryService(t *testing.T) {
	platform := startFakePlatform(t)
	platform.health.SetServingStatus(MemoryService, grpc_health_v1.HealthCheckResponse_SERVING)
	dir := New(platform.conn, time.Second)
	probe := dir.Probe(MemoryService, "ALNavigation")

	err := probe(context.Background())
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}
	if _, ok := dir.Handle(MemoryService); ok {
		t.Fatal("partial probe should not keep handles")
	}

	platform.health.SetServingStatus("ALNavigation", grpc_health_v1.HealthCheckResponse_SERVING)
	if err := probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, name := range []string{MemoryService, "ALNavigation"} {
		if _, ok := dir.Handle(name); !ok {
			t.Fatalf("missing handle for %s", name)
		}
	}
}

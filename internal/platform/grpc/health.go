package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ErrServiceUnknown indicates the health server has no entry for a service.
var ErrServiceUnknown = errors.New("service is not registered")

// HealthError describes a health check that did not report SERVING.
type HealthError struct {
	Service string
	Status  grpc_health_v1.HealthCheckResponse_ServingStatus
	Err     error
}

// Error implements the error interface.
func (e *HealthError) Error() string {
	if e == nil {
		return "gRPC health error"
	}
	if e.Err != nil {
		return fmt.Sprintf("health check %q: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("health check %q: status %s", e.Service, e.Status.String())
}

// Unwrap returns the underlying error.
func (e *HealthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CheckHealth performs one health check for service and returns nil only
// when it reports SERVING. A health server without an entry for service
// yields an error wrapping ErrServiceUnknown.
func CheckHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string, timeout time.Duration) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	response, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &HealthError{Service: service, Status: grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN, Err: ErrServiceUnknown}
		}
		return &HealthError{Service: service, Status: grpc_health_v1.HealthCheckResponse_UNKNOWN, Err: err}
	}
	if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return &HealthError{Service: service, Status: response.GetStatus()}
	}
	return nil
}

// Package directory looks up platform services by name. The platform's gRPC
// health service acts as its service directory: a service is present once
// its health entry reports SERVING.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	platformgrpc "github.com/louisbranch/navfiles/internal/platform/grpc"
	"github.com/louisbranch/navfiles/internal/platform/timeouts"
	"google.golang.org/grpc"
)

// MemoryService is the platform memory service the map service depends on.
const MemoryService = "ALMemory"

// ErrServiceNotFound indicates the directory has no entry for a name yet.
var ErrServiceNotFound = errors.New("service not found")

// LookupError reports a lookup that did not produce a handle.
type LookupError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Handle is a usable reference to a platform service.
type Handle struct {
	Name string
	Conn grpc.ClientConnInterface
}

// Directory resolves platform services through one platform connection.
type Directory struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration

	mu      sync.Mutex
	handles map[string]Handle
}

// New returns a directory backed by conn. A zero timeout uses the shared
// platform request timeout.
func New(conn grpc.ClientConnInterface, timeout time.Duration) *Directory {
	if timeout <= 0 {
		timeout = timeouts.GRPCRequest
	}
	return &Directory{
		conn:    conn,
		timeout: timeout,
		handles: make(map[string]Handle),
	}
}

// Lookup returns a handle for name once the platform reports it present.
func (d *Directory) Lookup(ctx context.Context, name string) (Handle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Handle{}, &LookupError{Name: name, Err: fmt.Errorf("service name is required")}
	}
	if d == nil || d.conn == nil {
		return Handle{}, &LookupError{Name: name, Err: fmt.Errorf("platform connection is not configured")}
	}

	err := platformgrpc.CheckHealth(ctx, d.conn, name, d.timeout)
	if errors.Is(err, platformgrpc.ErrServiceUnknown) {
		return Handle{}, &LookupError{Name: name, Err: ErrServiceNotFound}
	}
	if err != nil {
		return Handle{}, &LookupError{Name: name, Err: err}
	}
	return Handle{Name: name, Conn: d.conn}, nil
}

// Probe returns a dependency probe that succeeds once every name resolves.
// Handles are kept only when the whole set resolves in one probe.
func (d *Directory) Probe(names ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resolved := make(map[string]Handle, len(names))
		var missing []error
		for _, name := range names {
			handle, err := d.Lookup(ctx, name)
			if err != nil {
				missing = append(missing, err)
				continue
			}
			resolved[handle.Name] = handle
		}
		if len(missing) > 0 {
			return errors.Join(missing...)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		for name, handle := range resolved {
			d.handles[name] = handle
		}
		return nil
	}
}

// Handle returns a handle acquired by a successful probe.
func (d *Directory) Handle(name string) (Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	handle, ok := d.handles[name]
	return handle, ok
}

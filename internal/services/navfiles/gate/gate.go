package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrDependencyTimeout matches any TimeoutError via errors.Is.
	ErrDependencyTimeout = errors.New("dependency timeout")
	// ErrAlreadyAcquired is returned when Acquire is called more than once.
	ErrAlreadyAcquired = errors.New("dependency gate already acquired")
)

// Probe checks the dependencies once. A non-nil error means they are not
// available yet and the probe will be retried.
type Probe func(ctx context.Context) error

// Logger is the subset of a leveled logger the gate writes to.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Observer receives probe outcomes and the final resolution. Both methods
// must be cheap; they run on the poll and waiter goroutines.
type Observer interface {
	ProbeAttempted(err error)
	Resolved(state State)
}

// Config holds the gate timing.
type Config struct {
	Deadline     time.Duration
	PollInterval time.Duration
}

// Validate reports whether the timing is usable.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be greater than zero")
	}
	if c.Deadline <= 0 {
		return fmt.Errorf("deadline must be greater than zero")
	}
	return nil
}

// ProbeError wraps one failed probe attempt. It is always recoverable.
type ProbeError struct {
	Attempt int
	Err     error
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e == nil {
		return "dependency probe error"
	}
	return fmt.Sprintf("probe attempt %d: %v", e.Attempt, e.Err)
}

// Unwrap returns the underlying probe failure.
func (e *ProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TimeoutError reports that no probe succeeded before the deadline.
type TimeoutError struct {
	Deadline time.Duration
	Attempts int
	// Last is the most recent probe failure, if any probe ran.
	Last *ProbeError
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e == nil {
		return ErrDependencyTimeout.Error()
	}
	if e.Last == nil {
		return fmt.Sprintf("dependencies unavailable after %s (%d attempts)", e.Deadline, e.Attempts)
	}
	return fmt.Sprintf("dependencies unavailable after %s (%d attempts): %v", e.Deadline, e.Attempts, e.Last.Err)
}

// Is matches ErrDependencyTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrDependencyTimeout
}

// Unwrap returns the last probe failure.
func (e *TimeoutError) Unwrap() error {
	if e == nil || e.Last == nil {
		return nil
	}
	return e.Last
}

// Gate resolves a single readiness signal from a polled probe.
type Gate struct {
	cfg      Config
	log      Logger
	observer Observer
	signal   *Signal
	acquired atomic.Bool

	mu       sync.Mutex
	attempts int
	last     *ProbeError
}

// New creates a pending gate. log may be nil.
func New(cfg Config, log Logger) *Gate {
	return &Gate{
		cfg:    cfg,
		log:    log,
		signal: NewSignal(),
	}
}

// WithObserver attaches an observer. It must be called before Acquire.
func (g *Gate) WithObserver(observer Observer) *Gate {
	g.observer = observer
	return g
}

// Signal exposes the readiness signal for observers.
func (g *Gate) Signal() *Signal {
	return g.signal
}

// Attempts returns how many probes have run so far.
func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}

// Acquire runs probe now and then every poll interval until it succeeds or
// the deadline elapses. It may only be called once per gate.
func (g *Gate) Acquire(ctx context.Context, probe Probe) error {
	if probe == nil {
		return errors.New("dependency probe is required")
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}
	if !g.acquired.CompareAndSwap(false, true) {
		return ErrAlreadyAcquired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	g.infof("Connecting services...")
	task := NewPollTask(g.cfg.PollInterval, func(tickCtx context.Context) bool {
		return g.tick(tickCtx, probe)
	})
	task.Start()
	defer task.Stop()

	deadline := time.NewTimer(g.cfg.Deadline)
	defer deadline.Stop()

	select {
	case <-g.signal.Done():
	case <-deadline.C:
		if g.resolve(StateFailed) {
			task.Stop()
			err := g.timeoutError()
			g.errorf("Failed to reach all services after %s", g.cfg.Deadline)
			return err
		}
	case <-ctx.Done():
		if g.resolve(StateFailed) {
			task.Stop()
			return fmt.Errorf("wait for dependencies: %w", ctx.Err())
		}
	}

	// A probe may win the race against the deadline; the signal keeps the
	// first resolution.
	task.Stop()
	if g.signal.State() != StateReady {
		return g.timeoutError()
	}
	g.infof("All services are now connected")
	return nil
}

func (g *Gate) tick(ctx context.Context, probe Probe) bool {
	if ctx.Err() != nil || g.signal.State() != StatePending {
		return true
	}

	g.mu.Lock()
	g.attempts++
	attempt := g.attempts
	g.mu.Unlock()

	err := probe(ctx)
	if g.observer != nil && ctx.Err() == nil {
		g.observer.ProbeAttempted(err)
	}
	if err != nil {
		probeErr := &ProbeError{Attempt: attempt, Err: err}
		g.mu.Lock()
		g.last = probeErr
		g.mu.Unlock()
		if ctx.Err() == nil {
			g.warnf("Still missing some service (attempt %d):\n %v", attempt, err)
		}
		return false
	}

	// Resolve returns false when the waiter already declared failure; the
	// late success is dropped.
	g.resolve(StateReady)
	return true
}

func (g *Gate) resolve(state State) bool {
	if !g.signal.Resolve(state) {
		return false
	}
	if g.observer != nil {
		g.observer.Resolved(state)
	}
	return true
}

func (g *Gate) timeoutError() *TimeoutError {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &TimeoutError{
		Deadline: g.cfg.Deadline,
		Attempts: g.attempts,
		Last:     g.last,
	}
}

func (g *Gate) infof(format string, args ...any) {
	if g.log != nil {
		g.log.Infof(format, args...)
	}
}

func (g *Gate) warnf(format string, args ...any) {
	if g.log != nil {
		g.log.Warnf(format, args...)
	}
}

func (g *Gate) errorf(format string, args ...any) {
	if g.log != nil {
		g.log.Errorf(format, args...)
	}
}

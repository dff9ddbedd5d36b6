// Package gate blocks service startup until required dependencies are
// reachable, polling at a fixed interval and giving up after a deadline.
package gate

import "sync"

// State is the resolution state of a readiness signal.
type State int32

const (
	// StatePending means no resolution has happened yet.
	StatePending State = iota
	// StateReady means a dependency probe succeeded.
	StateReady
	// StateFailed means the deadline elapsed or the wait was abandoned.
	StateFailed
)

// String returns a lowercase label for logs and metrics.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Signal is a one-shot readiness value. It leaves Pending exactly once.
type Signal struct {
	mu    sync.Mutex
	state State
	done  chan struct{}
}

// NewSignal returns a pending signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Resolve moves the signal out of Pending. It reports whether this call
// performed the transition; later calls never overwrite the first result.
func (s *Signal) Resolve(state State) bool {
	if state != StateReady && state != StateFailed {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return false
	}
	s.state = state
	close(s.done)
	return true
}

// State returns the current state.
func (s *Signal) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the signal resolves.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

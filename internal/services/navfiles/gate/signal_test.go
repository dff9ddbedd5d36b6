package gate

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSignalResolvesOnce(t *testing.T) {
	s := NewSignal()
	if got := s.State(); got != StatePending {
		t.Fatalf("state = %s, want pending", got)
	}
	if !s.Resolve(StateFailed) {
		t.Fatal("first resolve should win")
	}
	if s.Resolve(StateReady) {
		t.Fatal("second resolve should be a no-op")
	}
	if got := s.State(); got != StateFailed {
		t.Fatalf("state = %s, want failed", got)
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestSignalIgnoresPendingTarget(t *testing.T) {
	s := NewSignal()
	if s.Resolve(StatePending) {
		t.Fatal("resolving to pending should be rejected")
	}
	select {
	case <-s.Done():
		t.Fatal("done channel should stay open")
	default:
	}
}

func TestSignalConcurrentResolveHasOneWinner(t *testing.T) {
	s := NewSignal()
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		state := StateReady
		if i%2 == 0 {
			state = StateFailed
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Resolve(state) {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := winners.Load(); got != 1 {
		t.Fatalf("winners = %d, want 1", got)
	}
}

package gate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollTaskTicksImmediatelyThenPeriodically(t *testing.T) {
	var ticks atomic.Int32
	task := NewPollTask(10*time.Millisecond, func(context.Context) bool {
		ticks.Add(1)
		return false
	})
	task.Start()
	time.Sleep(55 * time.Millisecond)
	task.Stop()

	if got := ticks.Load(); got < 3 {
		t.Fatalf("ticks = %d, want at least 3", got)
	}
	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Fatalf("ticks grew from %d to %d after stop", settled, got)
	}
}

func TestPollTaskFinishesWhenTickReturnsTrue(t *testing.T) {
	var ticks atomic.Int32
	task := NewPollTask(5*time.Millisecond, func(context.Context) bool {
		return ticks.Add(1) == 2
	})
	task.Start()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != 2 {
		t.Fatalf("ticks = %d, want 2", got)
	}
	task.Stop()
}

func TestPollTaskStopIsIdempotent(t *testing.T) {
	task := NewPollTask(5*time.Millisecond, func(context.Context) bool { return false })
	task.Start()

	done := make(chan struct{})
	go func() {
		task.Stop()
		task.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("repeated stop blocked")
	}
}

func TestPollTaskStopBeforeStart(t *testing.T) {
	var ticks atomic.Int32
	task := NewPollTask(5*time.Millisecond, func(context.Context) bool {
		ticks.Add(1)
		return false
	})
	task.Stop()
	task.Start()
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != 0 {
		t.Fatalf("ticks = %d, want 0 after stop", got)
	}
}

func TestPollTaskStopCancelsInFlightTick(t *testing.T) {
	entered := make(chan struct{})
	task := NewPollTask(time.Hour, func(ctx context.Context) bool {
		close(entered)
		<-ctx.Done()
		return false
	})
	task.Start()
	<-entered

	done := make(chan struct{})
	go func() {
		task.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the in-flight tick")
	}
}

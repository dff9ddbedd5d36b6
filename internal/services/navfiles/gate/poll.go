package gate

import (
	"context"
	"sync"
	"time"
)

// PollTask runs a callback immediately and then once per period until
// stopped or until the callback asks to finish.
type PollTask struct {
	period time.Duration
	tick   func(ctx context.Context) (finished bool)

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	exited    chan struct{}
}

// NewPollTask builds a stopped task. tick returns true once no further
// ticks are wanted.
func NewPollTask(period time.Duration, tick func(ctx context.Context) bool) *PollTask {
	return &PollTask{
		period: period,
		tick:   tick,
		exited: make(chan struct{}),
	}
}

// Start launches the loop. Only the first call has an effect.
func (t *PollTask) Start() {
	t.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		t.cancel = cancel
		go t.loop(ctx)
	})
}

func (t *PollTask) loop(ctx context.Context) {
	defer close(t.exited)

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		if t.tick(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the in-flight tick, if any, and waits for the loop to exit.
// It is safe to call more than once and before Start.
func (t *PollTask) Stop() {
	t.stopOnce.Do(func() {
		started := true
		t.startOnce.Do(func() { started = false })
		if !started {
			close(t.exited)
			return
		}
		t.cancel()
		<-t.exited
	})
}

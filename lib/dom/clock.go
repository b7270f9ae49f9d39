package dom

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the suspension points of transition-aware class
// mutation and controller delays, so tests can run transitions
// instantly while production code waits out real CSS durations.
type Clock interface {
	// Sleep suspends for d, returning early with ctx.Err() if the
	// context is cancelled first.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock returns a Clock backed by wall-clock timers.
func RealClock() Clock { return realClock{} }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant is a test clock: Sleep returns immediately and records the
// requested durations in order.
type Instant struct {
	mu    sync.Mutex
	slept []time.Duration

	// Gate, when set, is invoked before each sleep returns. Tests use
	// it to interleave calls at suspension points.
	Gate func(d time.Duration)
}

// Sleep records d and returns immediately.
func (c *Instant) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	if c.Gate != nil {
		c.Gate(d)
	}
	return nil
}

// Slept returns a copy of the recorded sleep durations.
func (c *Instant) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.slept))
	copy(out, c.slept)
	return out
}

// Reset clears the recorded durations.
func (c *Instant) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = nil
}

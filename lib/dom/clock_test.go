package dom

import (
	"context"
	"testing"
	"time"
)

func TestRealClockSleep(t *testing.T) {
	c := RealClock()
	start := time.Now()
	if err := c.Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Sleep returned early")
	}
}

func TestRealClockCancelled(t *testing.T) {
	c := RealClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Sleep(ctx, time.Hour); err == nil {
		t.Error("Sleep ignored a cancelled context")
	}
}

func TestInstantRecordsDurations(t *testing.T) {
	c := &Instant{}
	ctx := context.Background()

	c.Sleep(ctx, 10*time.Millisecond)
	c.Sleep(ctx, 200*time.Millisecond)

	got := c.Slept()
	if len(got) != 2 || got[0] != 10*time.Millisecond || got[1] != 200*time.Millisecond {
		t.Errorf("Slept() = %v", got)
	}

	c.Reset()
	if len(c.Slept()) != 0 {
		t.Error("Reset did not clear recordings")
	}
}

func TestInstantGate(t *testing.T) {
	c := &Instant{}
	var gated []time.Duration
	c.Gate = func(d time.Duration) { gated = append(gated, d) }

	c.Sleep(context.Background(), 42*time.Millisecond)

	if len(gated) != 1 || gated[0] != 42*time.Millisecond {
		t.Errorf("gate saw %v, want [42ms]", gated)
	}
}

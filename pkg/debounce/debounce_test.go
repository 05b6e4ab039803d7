package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleCoalescesBursts(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	timer := New(20 * time.Millisecond)

	for i := 0; i < 5; i++ {
		timer.Schedule(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected exactly one firing, got %d", got)
	}
}

func TestCancelDropsPendingAction(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	timer := New(20 * time.Millisecond)

	timer.Schedule(func() { fired.Add(1) })
	if !timer.Pending() {
		t.Fatal("expected pending action after schedule")
	}
	timer.Cancel()
	if timer.Pending() {
		t.Fatal("expected no pending action after cancel")
	}

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("cancelled action still fired %d times", got)
	}
}

func TestPendingClearsAfterFire(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	timer := New(5 * time.Millisecond)
	timer.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("action never fired")
	}

	// The pending flag is cleared before fn runs; give the goroutine a beat.
	time.Sleep(5 * time.Millisecond)
	if timer.Pending() {
		t.Fatal("expected pending to clear after firing")
	}
}

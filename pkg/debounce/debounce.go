// Package debounce coalesces bursts of events into a single deferred
// action: each Schedule call cancels the previously pending one, so only
// the last action within an idle window fires.
package debounce

import (
	"sync"
	"time"
)

type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending *time.Timer
}

// New returns a debounce timer with the given idle delay.
func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Schedule arms fn to run after the idle delay, cancelling any action
// scheduled earlier that has not fired yet. fn runs on a timer goroutine.
func (t *Timer) Schedule(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
	}
	t.pending = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending action, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Pending reports whether an action is still waiting to fire.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

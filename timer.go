package authgate

import (
	"sync"
	"time"
)

// LockTimer is a cancellable, restartable one-shot countdown. At most one
// countdown is active at a time: arming cancels any previous countdown, and a
// stale fire from a superseded countdown is never delivered.
type LockTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewLockTimer returns an unarmed timer.
func NewLockTimer() *LockTimer {
	return &LockTimer{}
}

// Arm starts a one-shot countdown that invokes onExpire after d. Any existing
// countdown is cancelled first. Expiry fires exactly once unless the timer is
// reset or cancelled before d elapses.
func (t *LockTimer) Arm(d time.Duration, onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.gen {
			// superseded by a later Arm/Cancel
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		onExpire()
	})
}

// Cancel stops any pending countdown. It is idempotent and safe to call when
// the timer is not armed.
func (t *LockTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset is Cancel followed by Arm.
func (t *LockTimer) Reset(d time.Duration, onExpire func()) {
	t.Arm(d, onExpire)
}

// Armed reports whether a countdown is pending.
func (t *LockTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *LockTimer) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Package debounce provides single-flight timer replacement: triggering a
// debouncer while a previous trigger is pending cancels the pending one, so
// a burst of triggers runs the callback exactly once after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into one callback invocation. There is
// no true cancellation of running callbacks, only replacement of the pending
// timer; a callback that has already started is never interrupted.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer with the given quiet period. A non-positive quiet
// period makes Trigger run callbacks synchronously, which keeps call sites
// uniform when debouncing is disabled.
func New(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn to run after the quiet period, replacing any
// previously scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	if d.quiet <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending callback. It does not wait for a callback that
// has already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Package debounce provides a cancel-and-reschedule timer: within a quiet
// window only the last scheduled call fires.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending timer. Each Trigger cancels the pending
// call and schedules a new one delay later.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	seq     uint64
	stopped bool
	running sync.WaitGroup
}

// New returns a Debouncer with the given quiet window.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay is the quiet window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn to run after the quiet window, replacing any call
// still pending. After Stop, Trigger is a no-op.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire runs the pending call if it is still the latest one scheduled.
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.pending == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()
	fn()
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Cancel drops the pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Flush runs the pending call now, synchronously, if there is one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.cancelLocked()
	if fn != nil {
		d.running.Add(1)
	}
	d.mu.Unlock()
	if fn != nil {
		defer d.running.Done()
		fn()
	}
}

// Stop cancels the pending call and disables the Debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Wait blocks until every call that has already started returns. Call it
// after Stop to be sure nothing is still running.
func (d *Debouncer) Wait() {
	d.running.Wait()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.seq++
}

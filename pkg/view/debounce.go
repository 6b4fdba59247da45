package view

import (
	"sync"
	"time"
)

// DefaultSaveDelay is the quiet period before a save runs.
const DefaultSaveDelay = 250 * time.Millisecond

// Notifier is told that the session changed and should be saved soon.
type Notifier interface {
	Notify()
}

// Debouncer runs fn once after notifications stop for delay. Every Notify
// restarts the timer, so the latest notification supersedes earlier ones.
//
// When the timer fires fn is handed to dispatch instead of being called on
// the timer goroutine. A nil dispatch calls fn directly.
type Debouncer struct {
	delay    time.Duration
	fn       func()
	dispatch func(func())

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
}

// NewDebouncer creates a debouncer. A non-positive delay uses
// DefaultSaveDelay.
func NewDebouncer(delay time.Duration, fn func(), dispatch func(func())) *Debouncer {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &Debouncer{delay: delay, fn: fn, dispatch: dispatch}
}

// Notify schedules fn, replacing any schedule that has not fired yet.
func (d *Debouncer) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.dispatch(d.fn)
}

// Pending reports whether a notification is waiting for its timer.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs fn now, on the caller's goroutine, if a notification is
// pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.mu.Unlock()
	d.fn()
}

// Stop discards any pending notification.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}

var _ Notifier = (*Debouncer)(nil)

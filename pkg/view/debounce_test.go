package view

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := NewDebouncer(20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	}, nil)

	for range 5 {
		d.Notify()
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after the timer fired")
	}
}

func TestDebouncerDispatch(t *testing.T) {
	queue := make(chan func(), 1)
	ran := false
	d := NewDebouncer(5*time.Millisecond, func() { ran = true }, func(f func()) { queue <- f })

	d.Notify()
	select {
	case f := <-queue:
		if ran {
			t.Fatal("fn ran on the timer goroutine")
		}
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing dispatched")
	}
	if !ran {
		t.Error("dispatched fn did not run")
	}
}

func TestDebouncerFlushAndStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) }, nil)

	d.Flush()
	if calls.Load() != 0 {
		t.Fatal("Flush without a notification should not run fn")
	}

	d.Notify()
	if !d.Pending() {
		t.Fatal("Notify should leave a pending run")
	}
	d.Flush()
	if calls.Load() != 1 || d.Pending() {
		t.Errorf("after Flush: calls = %d, pending = %v", calls.Load(), d.Pending())
	}

	d.Notify()
	d.Stop()
	d.Flush()
	if calls.Load() != 1 {
		t.Errorf("Stop should discard the pending run, calls = %d", calls.Load())
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, func() {}, nil)
	if d.delay != DefaultSaveDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultSaveDelay)
	}
}

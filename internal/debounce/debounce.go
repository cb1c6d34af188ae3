// Package debounce coalesces bursts of calls into one call after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer keeps one persistent timer per key. Triggering a key again before
// its timer fires cancels the pending call and restarts the wait, so only the
// last fn of a burst runs.
type Debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	pending map[string]*entry
	stopped bool
}

type entry struct {
	timer *time.Timer
	fn    func()
	due   time.Time
	armed bool
}

func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait, pending: map[string]*entry{}}
}

// Trigger schedules fn for key after the quiet period, replacing any pending
// fn for the same key. With a zero wait fn runs synchronously.
func (d *Debouncer) Trigger(key string, fn func()) {
	if d.wait <= 0 {
		fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	e, ok := d.pending[key]
	if !ok {
		e = &entry{}
		d.pending[key] = e
	}
	e.fn = fn
	e.due = time.Now().Add(d.wait)
	e.armed = true
	if e.timer == nil {
		e.timer = time.AfterFunc(d.wait, func() { d.fire(key) })
		return
	}
	e.timer.Reset(d.wait)
}

func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	e := d.pending[key]
	// A Trigger that raced with this firing pushed due forward; its Reset
	// fires again later.
	if e == nil || !e.armed || time.Now().Before(e.due) {
		d.mu.Unlock()
		return
	}
	e.armed = false
	fn := e.fn
	e.fn = nil
	d.mu.Unlock()
	fn()
}

// Pending reports whether key has a call waiting.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.pending[key]
	return e != nil && e.armed
}

// Flush runs every pending call now, in no particular order.
func (d *Debouncer) Flush() {
	for _, fn := range d.drain() {
		fn()
	}
}

// FlushKey runs key's pending call now, if any.
func (d *Debouncer) FlushKey(key string) {
	d.mu.Lock()
	e := d.pending[key]
	if e == nil || !e.armed {
		d.mu.Unlock()
		return
	}
	e.timer.Stop()
	e.armed = false
	fn := e.fn
	e.fn = nil
	d.mu.Unlock()
	fn()
}

// Cancel drops key's pending call without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e := d.pending[key]; e != nil && e.armed {
		e.timer.Stop()
		e.armed = false
		e.fn = nil
	}
}

// Stop cancels every pending call and ignores later Triggers.
func (d *Debouncer) Stop() {
	d.drain()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Debouncer) drain() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fns := make([]func(), 0, len(d.pending))
	for _, e := range d.pending {
		if !e.armed {
			continue
		}
		e.timer.Stop()
		e.armed = false
		fns = append(fns, e.fn)
		e.fn = nil
	}
	return fns
}

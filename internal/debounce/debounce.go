// Package debounce delays a call until its input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window used for search-as-you-type.
const DefaultWindow = 500 * time.Millisecond

// Debouncer fires fn with the most recent value once Trigger has not been
// called for a full window. It is either idle or holding one pending timer.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fn     func(string)
	latest string
	// seq identifies the pending timer; a callback whose seq is stale was
	// superseded after it had already been scheduled and must not run.
	seq uint64
}

// New creates a debouncer calling fn after window of silence.
func New(window time.Duration, fn func(string)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window: window,
		fn:     fn,
	}
}

// Trigger records value as the latest input and restarts the window.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.latest = value
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.timer == nil {
		d.mu.Unlock()
		return
	}
	value := d.latest
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Flush cancels the pending call and runs it now, if there was one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	value := d.latest
	d.mu.Unlock()

	d.fn(value)
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Window returns the quiescence window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Package debounce collapses bursts of calls into one call made after a quiet
// period.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for dashboard text input.
const DefaultDelay = 500 * time.Millisecond

// Debouncer runs only the most recently submitted function, once, after delay
// has passed without another submission.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn, replacing any call still waiting for the quiet period.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops a pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Func wraps fn so that rapid successive calls collapse into one call with the
// last argument.
func Func[T any](delay time.Duration, fn func(T)) func(T) {
	d := New(delay)
	return func(v T) {
		d.Call(func() { fn(v) })
	}
}

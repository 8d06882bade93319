package page

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a re-render.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer coalesces bursts of triggers into one call of fn, run after the
// last trigger of the burst. Runs never overlap: a trigger that fires while
// fn is running waits for it to finish.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	run sync.Mutex
}

// NewDebouncer returns a debouncer calling fn delay after the last trigger.
// A non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules a run, superseding any pending one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}
	d.run.Lock()
	defer d.run.Unlock()
	d.fn()
}

// Stop cancels any pending run and ignores later triggers. A run already in
// progress completes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

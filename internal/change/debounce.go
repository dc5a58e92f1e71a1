// internal/change/debounce.go
package change

import (
	"sync"
	"time"
)

// debouncer delays a call until activity pauses. Arming cancels any
// pending call (reset, not stack), so only the most recent function
// ever runs.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncer) trigger(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// stop cancels any pending call. Used on teardown so a stale callback
// cannot fire after the host buffer is gone.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package brewing

import (
	"sync"
	"time"
)

// Timer is a goroutine-backed Scheduler for owners that are not driven by a
// UI runtime. Ticks are delivered as tags on C; the owner passes each one to
// Session.Tick from its own loop.
type Timer struct {
	interval time.Duration
	c        chan int

	mu      sync.Mutex
	tag     int
	stop    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewTimer creates an idle timer firing every interval once scheduled.
func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		interval: interval,
		c:        make(chan int, 1),
	}
}

// C returns the channel ticks are delivered on.
func (t *Timer) C() <-chan int {
	return t.c
}

// Schedule starts a tick source for tag. Scheduling the tag that is already
// live is a no-op; any other tag replaces the live source.
func (t *Timer) Schedule(tag int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	if t.stop != nil && t.tag == tag {
		return
	}
	t.cancelLocked()

	t.tag = tag
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(tag, t.stop, t.done)
}

// Cancel stops the live source, if any. When Cancel returns no further tick
// from that source will be delivered.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Stop cancels the live source and makes later Schedule calls no-ops.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.stopped = true
}

func (t *Timer) cancelLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop = nil
	t.done = nil

	// Drop a tick that was buffered but not yet consumed.
	select {
	case <-t.c:
	default:
	}
}

func (t *Timer) run(tag int, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case t.c <- tag:
			case <-stop:
				return
			}
		}
	}
}

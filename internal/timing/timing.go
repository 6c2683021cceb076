// Package timing reports how long startup phases take when
// BREWGUIDE_DEBUG_TIMING=1.
package timing

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	out     io.Writer
	started time.Time
	last    time.Time
)

func init() {
	if os.Getenv("BREWGUIDE_DEBUG_TIMING") == "1" {
		enable(os.Stderr, time.Now())
	}
}

func enable(w io.Writer, now time.Time) {
	mu.Lock()
	defer mu.Unlock()
	out, started, last = w, now, now
}

// Mark reports a checkpoint with the time since the previous one and since
// process start.
func Mark(label string) {
	mark(label, time.Now())
}

func mark(label string, now time.Time) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	fmt.Fprintf(out, "[timing] %s: +%dms (total %dms)\n", label, now.Sub(last).Milliseconds(), now.Sub(started).Milliseconds())
	last = now
}

// Package debug provides env-gated debug logging to stderr.
package debug

import (
	"fmt"
	"io"
	"os"
	"time"
)

var (
	enabled           = os.Getenv("BREWGUIDE_DEBUG") == "1"
	out     io.Writer = os.Stderr
)

// Logf writes a debug message to stderr if BREWGUIDE_DEBUG=1.
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Enabled returns true if debug logging is enabled.
func Enabled() bool {
	return enabled
}

// Package progress keeps a timestamped log file for every guided brewing
// session under the brewguide logs directory.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/dirs"
	"github.com/alexander-akhmetov/brewguide/internal/event"
)

// timestampFormat is the format for log timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// footerMarker starts the exit footer; logs without it were never finished.
const footerMarker = "Final state: "

// Logger writes timestamped session progress to a log file and an optional
// io.Writer.
type Logger struct {
	file      *os.File
	writer    io.Writer
	now       func() time.Time
	startTime time.Time
	recipeID  string
	logPath   string
}

// Config holds logger configuration.
type Config struct {
	LogsDir    string    // Directory for log files (default: dirs.LogsDir())
	RecipeID   string    // Recipe being brewed; part of the file name
	RecipeName string    // Display name for the header
	BeanID     string    // Optional bean
	Steps      int       // Number of steps in the session
	Writer     io.Writer // Optional additional writer for live output
	Now        func() time.Time
}

// NewLogger creates a logger that writes to a timestamped log file named
// <YYYYMMDD-HHMMSS>-<recipe-id>.log.
func NewLogger(cfg Config) (*Logger, error) {
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	start := now()
	name := fmt.Sprintf("%s-%s.log", start.Format("20060102-150405"), sanitizeFilename(cfg.RecipeID))
	logPath := filepath.Join(logsDir, name)

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{
		file:      f,
		writer:    cfg.Writer,
		now:       now,
		startTime: start,
		recipeID:  cfg.RecipeID,
		logPath:   logPath,
	}

	recipe := cfg.RecipeID
	if cfg.RecipeName != "" {
		recipe = fmt.Sprintf("%s (%s)", cfg.RecipeName, cfg.RecipeID)
	}
	l.filef("# Brewguide Session Log\n")
	l.filef("Recipe: %s\n", recipe)
	if cfg.BeanID != "" {
		l.filef("Bean: %s\n", cfg.BeanID)
	}
	l.filef("Steps: %d\n", cfg.Steps)
	l.filef("Started: %s\n", start.Format(timestampFormat))
	l.filef("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.logPath
}

// RecipeID returns the recipe the session brews.
func (l *Logger) RecipeID() string {
	return l.recipeID
}

// Printf writes a timestamped message to the log and the live writer.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.filef("[%s] %s\n", l.now().Format(timestampFormat), msg)
	if l.writer != nil {
		fmt.Fprintln(l.writer, msg)
	}
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.Printf("ERROR: "+format, args...)
}

// Handle records a session event. It matches event.Handler.
func (l *Logger) Handle(e event.Event) {
	if e.Kind == event.KindNote {
		l.Printf("%s", e.Text)
		return
	}
	line := fmt.Sprintf("[%s] %s: %s (step %d)", brewing.FormatElapsed(e.Elapsed), e.Kind, e.Text, e.Step+1)
	if e.Kind == event.KindRejected {
		// Rejected operations are recorded in the file only.
		l.filef("[%s] %s\n", l.now().Format(timestampFormat), line)
		return
	}
	l.Printf("%s", line)
}

// Exit writes the footer: final state, elapsed session time, completed
// steps and wall-clock duration.
func (l *Logger) Exit(state brewing.State, elapsed, completed, total int) {
	l.filef("\n%s\n", strings.Repeat("-", 60))
	l.filef("%s%s\n", footerMarker, state)
	l.filef("Elapsed: %s\n", brewing.FormatElapsed(elapsed))
	l.filef("Steps completed: %d/%d\n", completed, total)
	l.filef("Duration: %s\n", l.duration())
	l.filef("Finished: %s\n", l.now().Format(timestampFormat))
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (l *Logger) filef(format string, args ...any) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

func (l *Logger) duration() string {
	d := l.now().Sub(l.startTime).Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// sanitizeFilename converts a recipe id to a safe filename component.
func sanitizeFilename(s string) string {
	s = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-").Replace(s)

	var clean strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			clean.WriteRune(r)
		}
	}
	result := clean.String()

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if len(result) > 100 {
		result = strings.TrimRight(result[:100], "-")
	}

	if result == "" {
		return "unnamed"
	}
	return result
}

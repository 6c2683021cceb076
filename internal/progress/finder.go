package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alexander-akhmetov/brewguide/internal/dirs"
)

// LogFile is a session log on disk.
type LogFile struct {
	Path      string
	RecipeID  string
	Timestamp time.Time
	Finished  bool // false while the session runs, or if it was killed
}

// FindLogs lists log files in logsDir, optionally filtered by a recipe id
// substring. Files are returned newest first.
func FindLogs(logsDir, recipeID string) ([]LogFile, error) {
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		lf := parseLogFilename(logsDir, entry.Name())
		if lf == nil {
			continue
		}
		if recipeID != "" && !strings.Contains(strings.ToLower(lf.RecipeID), strings.ToLower(recipeID)) {
			continue
		}
		lf.Finished = hasFooter(lf.Path)
		logs = append(logs, *lf)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// FindLatestLog returns the most recent log for a recipe, or nil.
func FindLatestLog(logsDir, recipeID string) (*LogFile, error) {
	logs, err := FindLogs(logsDir, recipeID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

// parseLogFilename parses YYYYMMDD-HHMMSS-<recipe-id>.log.
func parseLogFilename(dir, name string) *LogFile {
	base := strings.TrimSuffix(name, ".log")
	if len(base) < 16 {
		return nil
	}

	t, err := time.Parse("20060102-150405", base[:15])
	if err != nil {
		return nil
	}

	return &LogFile{
		Path:      filepath.Join(dir, name),
		RecipeID:  base[16:],
		Timestamp: t,
	}
}

func hasFooter(path string) bool {
	data, err := os.ReadFile(path) //nolint:gosec // file found in logs dir
	if err != nil {
		return false
	}
	return bytes.Contains(data, []byte("\n"+footerMarker))
}

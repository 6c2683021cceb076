package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/event"
)

func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestNewLogger(t *testing.T) {
	tmpDir := t.TempDir()
	clock, advance := fixedClock(time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local))
	var live bytes.Buffer

	logger, err := NewLogger(Config{
		LogsDir:    tmpDir,
		RecipeID:   "v60",
		RecipeName: "V60 Pour Over",
		BeanID:     "bean-1",
		Steps:      6,
		Writer:     &live,
		Now:        clock,
	})
	require.NoError(t, err)
	defer logger.Close()

	assert.FileExists(t, logger.Path())
	assert.Equal(t, filepath.Join(tmpDir, "20260314-083000-v60.log"), logger.Path())
	assert.Equal(t, "v60", logger.RecipeID())

	logger.Handle(event.Started(0))
	advance(95 * time.Second)
	logger.Handle(event.StepAdvanced("Step 2/6: Bloom", 1, 95))
	logger.Handle(event.Note("grinder set to 24 clicks"))
	logger.Errorf("save record: %s", "disk full")
	logger.Exit(brewing.StateCompleted, 95, 6, 6)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Brewguide Session Log")
	assert.Contains(t, content, "Recipe: V60 Pour Over (v60)")
	assert.Contains(t, content, "Bean: bean-1")
	assert.Contains(t, content, "Steps: 6")
	assert.Contains(t, content, "Started: 2026-03-14 08:30:00")
	assert.Contains(t, content, "[2026-03-14 08:30:00] [00:00] started: Brewing started (step 1)")
	assert.Contains(t, content, "[2026-03-14 08:31:35] [01:35] step: Step 2/6: Bloom (step 2)")
	assert.Contains(t, content, "grinder set to 24 clicks")
	assert.Contains(t, content, "ERROR: save record: disk full")
	assert.Contains(t, content, "Final state: completed")
	assert.Contains(t, content, "Elapsed: 01:35")
	assert.Contains(t, content, "Steps completed: 6/6")
	assert.Contains(t, content, "Duration: 1m35s")

	assert.Contains(t, live.String(), "started: Brewing started")
	assert.NotContains(t, live.String(), "Final state")
}

func TestHandle_RejectedStaysInFile(t *testing.T) {
	var live bytes.Buffer
	logger, err := NewLogger(Config{LogsDir: t.TempDir(), RecipeID: "v60", Steps: 6, Writer: &live})
	require.NoError(t, err)

	logger.Handle(event.Rejected("invalid transition: toggle pause while idle", 0, 0))
	logger.Handle(event.Started(0))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "rejected: invalid transition: toggle pause while idle (step 1)")

	assert.NotContains(t, live.String(), "rejected")
	assert.Contains(t, live.String(), "started: Brewing started")
}

func TestNewLogger_NoBean(t *testing.T) {
	logger, err := NewLogger(Config{LogsDir: t.TempDir(), RecipeID: "espresso", Steps: 2})
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Recipe: espresso\n")
	assert.NotContains(t, string(data), "Bean:")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"v60", "v60"},
		{"my recipes/v60", "my-recipes-v60"},
		{"/abs/path.yaml", "abs-path.yaml"},
		{"has:colons:too", "has-colons-too"},
		{"café!@#", "caf"},
		{"", "unnamed"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFilename(tt.input))
		})
	}
}

func TestFindLogs(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"20260129-120000-v60.log":          "header\n",
		"20260129-130000-french-press.log": "header\n\n" + footerMarker + "completed\n",
		"20260129-140000-v60-iced.log":     "header\n",
		"notes.txt":                        "ignored",
		"short.log":                        "ignored",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(body), 0o644))
	}

	logs, err := FindLogs(tmpDir, "")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "v60-iced", logs[0].RecipeID)
	assert.Equal(t, "french-press", logs[1].RecipeID)
	assert.Equal(t, "v60", logs[2].RecipeID)
	assert.True(t, logs[1].Finished)
	assert.False(t, logs[0].Finished)

	logs, err = FindLogs(tmpDir, "V60")
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = FindLogs(filepath.Join(tmpDir, "missing"), "")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestFindLatestLog(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "20260129-120000-espresso.log")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	lf, err := FindLatestLog(tmpDir, "espresso")
	require.NoError(t, err)
	require.NotNil(t, lf)
	assert.Equal(t, path, lf.Path)

	lf, err = FindLatestLog(tmpDir, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, lf)
}

func TestLoggerRoundTripsThroughFinder(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewLogger(Config{LogsDir: tmpDir, RecipeID: "v60", Steps: 1})
	require.NoError(t, err)

	lf, err := FindLatestLog(tmpDir, "v60")
	require.NoError(t, err)
	require.NotNil(t, lf)
	assert.False(t, lf.Finished)

	logger.Exit(brewing.StateCompleted, 10, 1, 1)
	require.NoError(t, logger.Close())

	lf, err = FindLatestLog(tmpDir, "v60")
	require.NoError(t, err)
	assert.True(t, lf.Finished)
}

func TestParseLogFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		expectNil bool
		recipeID  string
	}{
		{"valid", "20260129-120000-v60.log", false, "v60"},
		{"valid no recipe", "20260129-120000-.log", false, ""},
		{"too short", "short.log", true, ""},
		{"invalid timestamp", "invalid-timestamp-source.log", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseLogFilename("/tmp", tt.filename)
			if tt.expectNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, tt.recipeID, result.RecipeID)
			}
		})
	}
}

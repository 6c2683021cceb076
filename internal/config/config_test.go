package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BREWGUIDE_TICK_INTERVAL_MS",
		"BREWGUIDE_USER_ID",
		"BREWGUIDE_DEFAULT_RECIPE",
		"BREWGUIDE_STORE_PATH",
		"BREWGUIDE_JOURNAL_AUTO_COMMIT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.TickIntervalMS)
	assert.Equal(t, "user1", cfg.UserID)
	assert.Equal(t, "v60", cfg.DefaultRecipe)
	assert.Empty(t, cfg.StorePath)
	assert.False(t, cfg.Journal.AutoCommit)
	assert.Equal(t, 2000, cfg.Recognition.MinDelayMS)
	assert.Equal(t, 5000, cfg.Recognition.MaxDelayMS)
	assert.True(t, cfg.UI.ConfirmExit)
	assert.False(t, cfg.UI.HideTips)
}

func TestLoadWithDirs_InstallsDefaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "brewguide")

	cfg, err := LoadWithDirs(dir, "")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	assert.Equal(t, dir, cfg.ConfigDir())
	assert.Equal(t, filepath.Join(dir, "recipes"), cfg.ResolvedRecipesDir())
	assert.Equal(t, time.Second, cfg.TickInterval())
}

func TestLoadWithDirs_LocalOverridesGlobal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "user_id: alice\ndefault_recipe: french-press\nui:\n  confirm_exit: true\n")
	writeConfig(t, localDir, "default_recipe: espresso\nui:\n  confirm_exit: false\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.UserID)
	assert.Equal(t, "espresso", cfg.DefaultRecipe)
	assert.False(t, cfg.UI.ConfirmExit, "explicit false in local config must win")
	assert.Equal(t, localDir, cfg.LocalDir())
	assert.Equal(t, []string{
		"embedded",
		filepath.Join(globalDir, "config.yaml"),
		filepath.Join(localDir, "config.yaml"),
	}, cfg.Sources())
}

func TestEnvBetweenGlobalAndLocal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "tick_interval_ms: 500\nuser_id: alice\n")
	t.Setenv("BREWGUIDE_TICK_INTERVAL_MS", "250")
	t.Setenv("BREWGUIDE_USER_ID", "bob")
	writeConfig(t, localDir, "user_id: carol\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.TickIntervalMS, "env beats global")
	assert.Equal(t, "carol", cfg.UserID, "local beats env")
	assert.Contains(t, cfg.Sources(), "env:BREWGUIDE_TICK_INTERVAL_MS")
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
}

func TestApplyEnv_JournalAutoCommit(t *testing.T) {
	clearEnv(t)
	t.Setenv("BREWGUIDE_JOURNAL_AUTO_COMMIT", "1")

	cfg, err := loadEmbedded()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.True(t, cfg.Journal.AutoCommit)
	assert.True(t, cfg.Journal.AutoCommitSet)
}

func TestApplyEnv_IgnoresBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("BREWGUIDE_TICK_INTERVAL_MS", "soon")

	cfg, err := loadEmbedded()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.Equal(t, 1000, cfg.TickIntervalMS)
	assert.False(t, cfg.TickIntervalSet)
}

func TestParseConfigWithTracking(t *testing.T) {
	cfg, err := parseConfigWithTracking([]byte("tick_interval_ms: 0\njournal:\n  auto_commit: false\nrecognition:\n  min_delay_ms: 0\nui:\n  hide_tips: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.TickIntervalSet)
	assert.True(t, cfg.Journal.AutoCommitSet)
	assert.True(t, cfg.Recognition.MinDelaySet)
	assert.False(t, cfg.Recognition.MaxDelaySet)
	assert.True(t, cfg.UI.HideTipsSet)
	assert.False(t, cfg.UI.ConfirmExitSet)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := parseConfig([]byte("user_id: [unterminated"))
	require.Error(t, err)
}

func TestLoadWithDirs_InvalidGlobal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "tick_interval_ms: [1, 2\n")

	_, err := LoadWithDirs(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load global config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{TickIntervalMS: 1000, Recognition: RecognitionConfig{MinDelayMS: 1, MaxDelayMS: 2}}},
		{name: "negative tick", cfg: Config{TickIntervalMS: -1}, wantErr: true},
		{name: "max below min", cfg: Config{Recognition: RecognitionConfig{MinDelayMS: 5, MaxDelayMS: 1}}, wantErr: true},
		{name: "negative delay", cfg: Config{Recognition: RecognitionConfig{MinDelayMS: -5, MaxDelayMS: 1}}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyCLIFlags(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags(0, "")
	assert.Equal(t, 1000, cfg.TickIntervalMS)
	assert.Empty(t, cfg.Sources())

	cfg.ApplyCLIFlags(100, "/tmp/store.json")
	assert.Equal(t, 100, cfg.TickIntervalMS)
	assert.Equal(t, "/tmp/store.json", cfg.ResolvedStorePath())
	assert.Equal(t, []string{"cli:tick-interval", "cli:store"}, cfg.Sources())
}

func TestResolvedPaths_Defaults(t *testing.T) {
	t.Setenv("BREWGUIDE_STATE_DIR", "/state")
	cfg := &Config{}
	assert.Equal(t, filepath.Join("/state", "store.json"), cfg.ResolvedStorePath())
	assert.Equal(t, filepath.Join("/state", "logs"), cfg.ResolvedLogsDir())

	cfg.LogsDir = "/logs"
	assert.Equal(t, "/logs", cfg.ResolvedLogsDir())
}

func TestTickInterval_NonPositive(t *testing.T) {
	cfg := &Config{TickIntervalMS: 0}
	assert.Equal(t, time.Second, cfg.TickInterval())
}

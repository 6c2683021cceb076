// Package config provides unified configuration management for brewguide.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/brewguide/internal/dirs"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// JournalConfig controls how the record store is versioned.
type JournalConfig struct {
	AutoCommit bool `yaml:"auto_commit"`

	AutoCommitSet bool `yaml:"-"`
}

// RecognitionConfig controls the mock recognizer's simulated latency.
type RecognitionConfig struct {
	MinDelayMS int `yaml:"min_delay_ms"`
	MaxDelayMS int `yaml:"max_delay_ms"`

	MinDelaySet bool `yaml:"-"`
	MaxDelaySet bool `yaml:"-"`
}

// UIConfig holds TUI preferences.
type UIConfig struct {
	ConfirmExit bool `yaml:"confirm_exit"`
	HideTips    bool `yaml:"hide_tips"`

	ConfirmExitSet bool `yaml:"-"`
	HideTipsSet    bool `yaml:"-"`
}

// Config holds all configuration settings for brewguide.
// Fields ending in *Set track whether that field was explicitly set, so a
// local file can override a global value with false or 0.
type Config struct {
	TickIntervalMS int    `yaml:"tick_interval_ms"`
	UserID         string `yaml:"user_id"`
	DefaultRecipe  string `yaml:"default_recipe"`
	StorePath      string `yaml:"store_path"`
	LogsDir        string `yaml:"logs_dir"`
	RecipesDir     string `yaml:"recipes_dir"`

	Journal     JournalConfig     `yaml:"journal"`
	Recognition RecognitionConfig `yaml:"recognition"`
	UI          UIConfig          `yaml:"ui"`

	TickIntervalSet bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// TickInterval returns the session tick period.
func (c *Config) TickInterval() time.Duration {
	if c.TickIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// ResolvedStorePath returns StorePath or the default under the state dir.
func (c *Config) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return dirs.StorePath()
}

// ResolvedLogsDir returns LogsDir or the default under the state dir.
func (c *Config) ResolvedLogsDir() string {
	if c.LogsDir != "" {
		return c.LogsDir
	}
	return dirs.LogsDir()
}

// ResolvedRecipesDir returns RecipesDir or <config dir>/recipes.
func (c *Config) ResolvedRecipesDir() string {
	if c.RecipesDir != "" {
		return c.RecipesDir
	}
	if c.configDir != "" {
		return filepath.Join(c.configDir, "recipes")
	}
	return dirs.RecipesDir()
}

// Load loads all configuration from the default locations.
// It auto-detects .brewguide/ in the current working directory for local overrides.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ".brewguide")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}
	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// If localDir is empty, only the global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	cfg.applyEnv()

	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.TickIntervalMS < 0 {
		return fmt.Errorf("tick_interval_ms must not be negative, got %d", c.TickIntervalMS)
	}
	if c.Recognition.MinDelayMS < 0 || c.Recognition.MaxDelayMS < 0 {
		return fmt.Errorf("recognition delays must not be negative")
	}
	if c.Recognition.MaxDelayMS < c.Recognition.MinDelayMS {
		return fmt.Errorf("recognition.max_delay_ms (%d) is below min_delay_ms (%d)",
			c.Recognition.MaxDelayMS, c.Recognition.MinDelayMS)
	}
	return nil
}

// InstallDefaults creates the config directory and installs the default
// config file if it does not exist.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}
	return nil
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and records which fields were
// explicitly present.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if _, ok := raw["tick_interval_ms"]; ok {
		cfg.TickIntervalSet = true
	}
	if journal, ok := raw["journal"].(map[string]any); ok {
		if _, ok := journal["auto_commit"]; ok {
			cfg.Journal.AutoCommitSet = true
		}
	}
	if rec, ok := raw["recognition"].(map[string]any); ok {
		if _, ok := rec["min_delay_ms"]; ok {
			cfg.Recognition.MinDelaySet = true
		}
		if _, ok := rec["max_delay_ms"]; ok {
			cfg.Recognition.MaxDelaySet = true
		}
	}
	if ui, ok := raw["ui"].(map[string]any); ok {
		if _, ok := ui["confirm_exit"]; ok {
			cfg.UI.ConfirmExitSet = true
		}
		if _, ok := ui["hide_tips"]; ok {
			cfg.UI.HideTipsSet = true
		}
	}

	return cfg, nil
}

// applyEnv applies environment variables; they sit between the global and
// local files in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("BREWGUIDE_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TickIntervalMS = n
			c.TickIntervalSet = true
			c.sources = append(c.sources, "env:BREWGUIDE_TICK_INTERVAL_MS")
		}
	}

	if v := os.Getenv("BREWGUIDE_USER_ID"); v != "" {
		c.UserID = v
		c.sources = append(c.sources, "env:BREWGUIDE_USER_ID")
	}

	if v := os.Getenv("BREWGUIDE_DEFAULT_RECIPE"); v != "" {
		c.DefaultRecipe = v
		c.sources = append(c.sources, "env:BREWGUIDE_DEFAULT_RECIPE")
	}

	if v := os.Getenv("BREWGUIDE_STORE_PATH"); v != "" {
		c.StorePath = v
		c.sources = append(c.sources, "env:BREWGUIDE_STORE_PATH")
	}

	if v := os.Getenv("BREWGUIDE_JOURNAL_AUTO_COMMIT"); v != "" {
		c.Journal.AutoCommit = v == "true" || v == "1"
		c.Journal.AutoCommitSet = true
		c.sources = append(c.sources, "env:BREWGUIDE_JOURNAL_AUTO_COMMIT")
	}
}

// mergeFrom merges set or non-empty values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.TickIntervalSet {
		c.TickIntervalMS = src.TickIntervalMS
		c.TickIntervalSet = true
	}
	if src.UserID != "" {
		c.UserID = src.UserID
	}
	if src.DefaultRecipe != "" {
		c.DefaultRecipe = src.DefaultRecipe
	}
	if src.StorePath != "" {
		c.StorePath = src.StorePath
	}
	if src.LogsDir != "" {
		c.LogsDir = src.LogsDir
	}
	if src.RecipesDir != "" {
		c.RecipesDir = src.RecipesDir
	}

	if src.Journal.AutoCommitSet {
		c.Journal.AutoCommit = src.Journal.AutoCommit
		c.Journal.AutoCommitSet = true
	}

	if src.Recognition.MinDelaySet {
		c.Recognition.MinDelayMS = src.Recognition.MinDelayMS
		c.Recognition.MinDelaySet = true
	}
	if src.Recognition.MaxDelaySet {
		c.Recognition.MaxDelayMS = src.Recognition.MaxDelayMS
		c.Recognition.MaxDelaySet = true
	}

	if src.UI.ConfirmExitSet {
		c.UI.ConfirmExit = src.UI.ConfirmExit
		c.UI.ConfirmExitSet = true
	}
	if src.UI.HideTipsSet {
		c.UI.HideTips = src.UI.HideTips
		c.UI.HideTipsSet = true
	}
}

// ApplyCLIFlags applies CLI flag overrides, the highest precedence.
func (c *Config) ApplyCLIFlags(tickIntervalMS int, storePath string) {
	if tickIntervalMS > 0 {
		c.TickIntervalMS = tickIntervalMS
		c.TickIntervalSet = true
		c.sources = append(c.sources, "cli:tick-interval")
	}
	if storePath != "" {
		c.StorePath = storePath
		c.sources = append(c.sources, "cli:store")
	}
}

// Package dirs resolves brewguide's XDG Base Directory paths.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "brewguide"

// ConfigDir returns the brewguide configuration directory.
// Resolution order: XDG_CONFIG_HOME/brewguide > ~/.config/brewguide.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return underHome(".config", appName)
}

// StateDir returns the brewguide state directory, where the journal store
// and session logs live.
// Resolution order: BREWGUIDE_STATE_DIR > XDG_STATE_HOME/brewguide > ~/.local/state/brewguide.
func StateDir() string {
	if dir := os.Getenv("BREWGUIDE_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return underHome(".local", "state", appName)
}

// LogsDir returns the session log directory (StateDir/logs).
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// StorePath returns the default journal store file (StateDir/store.json).
func StorePath() string {
	return filepath.Join(StateDir(), "store.json")
}

// RecipesDir returns the user recipe directory (ConfigDir/recipes).
func RecipesDir() string {
	return filepath.Join(ConfigDir(), "recipes")
}

func underHome(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(append([]string{"."}, parts...)...)
	}
	return filepath.Join(append([]string{home}, parts...)...)
}

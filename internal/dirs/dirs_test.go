package dirs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		envVars  map[string]string
		expected string
	}{
		{
			name:     "default uses ~/.config/brewguide",
			envVars:  map[string]string{"XDG_CONFIG_HOME": ""},
			expected: filepath.Join(home, ".config", "brewguide"),
		},
		{
			name:     "respects XDG_CONFIG_HOME",
			envVars:  map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			expected: filepath.Join("/custom/config", "brewguide"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, ConfigDir())
		})
	}
}

func TestStateDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		envVars  map[string]string
		expected string
	}{
		{
			name:     "default uses ~/.local/state/brewguide",
			envVars:  map[string]string{"XDG_STATE_HOME": "", "BREWGUIDE_STATE_DIR": ""},
			expected: filepath.Join(home, ".local", "state", "brewguide"),
		},
		{
			name:     "respects XDG_STATE_HOME",
			envVars:  map[string]string{"XDG_STATE_HOME": "/custom/state", "BREWGUIDE_STATE_DIR": ""},
			expected: filepath.Join("/custom/state", "brewguide"),
		},
		{
			name:     "BREWGUIDE_STATE_DIR wins",
			envVars:  map[string]string{"XDG_STATE_HOME": "/custom/state", "BREWGUIDE_STATE_DIR": "/explicit"},
			expected: "/explicit",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, StateDir())
		})
	}
}

func TestDerivedDirs(t *testing.T) {
	t.Setenv("BREWGUIDE_STATE_DIR", "/state")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	assert.Equal(t, filepath.Join("/state", "logs"), LogsDir())
	assert.Equal(t, filepath.Join("/state", "store.json"), StorePath())
	assert.Equal(t, filepath.Join("/cfg", "brewguide", "recipes"), RecipesDir())
}

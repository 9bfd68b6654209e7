package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/citecheck/config.yml", GlobalConfigPath())

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	assert.Equal(t, filepath.Join(home, ".config", "citecheck", "config.yml"), GlobalConfigPath())
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, BackendFile, s.RulesBackend)
	assert.GreaterOrEqual(t, s.Workers, 1)
	assert.Equal(t, 3.0, s.Detector.ThresholdStart)
	assert.Equal(t, 4, s.Detector.Window)
	assert.Equal(t, 3.5, s.Detector.Weights.IsHeader)
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `log_level: debug
rules_backend: sqlite
workers: 2
detector:
  threshold_start: 2.5
  weights:
    has_doi: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, BackendSQLite, s.RulesBackend)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, 2.5, s.Detector.ThresholdStart)
	assert.Equal(t, 1.6, s.Detector.ThresholdIn, "unset keys keep defaults")
	assert.Equal(t, 2.0, s.Detector.Weights.HasDOI)
	assert.Equal(t, 1.3, s.Detector.Weights.HasURL)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0644))
	t.Setenv("CITECHECK_WORKERS", "6")
	t.Setenv("CITECHECK_DETECTOR_WINDOW", "3")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Workers)
	assert.Equal(t, 3, s.Detector.Window)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", "rules_backend: postgres\n"},
		{"zero workers", "workers: 0\n"},
		{"malformed yaml", "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadSettings(path)
			assert.Error(t, err)
		})
	}
}

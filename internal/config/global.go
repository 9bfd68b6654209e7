package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/matsen/citecheck/internal/boundary"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citecheck"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	envPrefix = "CITECHECK"
)

// Rules backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Settings are the user-level options read from the global config file
// and CITECHECK_* environment variables.
type Settings struct {
	LogLevel     string          `mapstructure:"log_level"`
	RulesBackend string          `mapstructure:"rules_backend"`
	Workers      int             `mapstructure:"workers"`
	Detector     boundary.Config `mapstructure:"detector"`
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citecheck/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// newViper returns a viper instance with defaults registered for every
// key, so that CITECHECK_DETECTOR_WINDOW and friends resolve.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "warn")
	v.SetDefault("rules_backend", BackendFile)
	v.SetDefault("workers", runtime.NumCPU())

	d := boundary.DefaultConfig()
	v.SetDefault("detector.threshold_start", d.ThresholdStart)
	v.SetDefault("detector.threshold_in", d.ThresholdIn)
	v.SetDefault("detector.window", d.Window)
	v.SetDefault("detector.max_leading_blanks", d.MaxLeadingBlanks)
	v.SetDefault("detector.max_blank_run", d.MaxBlankRun)
	v.SetDefault("detector.min_accumulated", d.MinAccumulated)

	w := d.Weights
	v.SetDefault("detector.weights.is_header", w.IsHeader)
	v.SetDefault("detector.weights.has_bracket_num", w.HasBracketNum)
	v.SetDefault("detector.weights.has_lead_num", w.HasLeadNum)
	v.SetDefault("detector.weights.has_year", w.HasYear)
	v.SetDefault("detector.weights.has_doi", w.HasDOI)
	v.SetDefault("detector.weights.has_url", w.HasURL)
	v.SetDefault("detector.weights.punct_density", w.PunctDensity)
	v.SetDefault("detector.weights.len_norm", w.LenNorm)
	return v
}

// LoadSettings reads settings from path, or from GlobalConfigPath when
// path is empty. A missing file is not an error; defaults and environment
// overrides still apply.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = GlobalConfigPath()
	}

	v := newViper()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading settings %q: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerated and positive fields.
func (s *Settings) Validate() error {
	switch s.RulesBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid rules_backend: %s (valid: %s, %s)", s.RulesBackend, BackendFile, BackendSQLite)
	}
	if s.Workers < 1 {
		return fmt.Errorf("invalid workers: %d (must be at least 1)", s.Workers)
	}
	return nil
}

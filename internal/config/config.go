// Package config loads user preferences from the pathwise config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences read from config.yaml. Every field is
// optional; command-line flags override anything set here.
type Config struct {
	// EnrollmentID identifies the learner across sessions.
	EnrollmentID string `yaml:"enrollmentId"`
	// ModulePath points at the default module definition file.
	ModulePath string `yaml:"modulePath"`
	// DBPath overrides the session database location.
	DBPath string `yaml:"dbPath"`
}

// DefaultEnrollmentID is used when neither the config file nor the
// command line names a learner.
const DefaultEnrollmentID = "local-learner"

// Parse decodes a YAML config payload.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.EnrollmentID = strings.TrimSpace(cfg.EnrollmentID)
	cfg.ModulePath = strings.TrimSpace(cfg.ModulePath)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	return &cfg, nil
}

// Load reads the config file at path. A missing file is not an error;
// it returns an empty config so callers can fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath resolves the config file location:
// $XDG_CONFIG_HOME/pathwise/config.yaml, falling back to
// ~/.config/pathwise/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pathwise", "config.yaml"), nil
}

// Enrollment returns the configured enrollment id, or the default when
// the config leaves it empty.
func (c *Config) Enrollment() string {
	if c == nil || c.EnrollmentID == "" {
		return DefaultEnrollmentID
	}
	return c.EnrollmentID
}

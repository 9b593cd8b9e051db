// Package config loads the optional kanboard.yaml settings file.
//
// Only presentation and logging preferences live here. Board contents are
// never written anywhere.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const appName = "kanboard"

// Config models config.yaml
type Config struct {
	// SampleData seeds the demo board and feed on startup
	SampleData bool `yaml:"sample_data"`

	// DefaultColumns are created empty when SampleData is off
	DefaultColumns []string `yaml:"default_columns"`

	ToastDuration time.Duration `yaml:"toast_duration"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level"`
	Mouse         bool          `yaml:"mouse"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		SampleData:     true,
		DefaultColumns: []string{"To Do", "In Progress", "Done"},
		ToastDuration:  3 * time.Second,
		LogLevel:       "info",
		Mouse:          true,
	}
}

// Path returns the config file location: $KANBOARD_CONFIG, else the XDG config dir
func Path() (string, error) {
	if p := os.Getenv("KANBOARD_CONFIG"); p != "" {
		return p, nil
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// Load reads the config file at Path. A missing file yields defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv lets DEBUG=true raise the log level
func (c *Config) applyEnv() {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes":
		c.LogLevel = "debug"
	}
}

// Validate checks the settings are usable
func (c *Config) Validate() error {
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive, got %s", c.ToastDuration)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if !c.SampleData {
		var titles []string
		for _, t := range c.DefaultColumns {
			if t = strings.TrimSpace(t); t != "" {
				titles = append(titles, t)
			}
		}
		if len(titles) == 0 {
			return errors.New("default_columns needs at least one title when sample_data is off")
		}
		c.DefaultColumns = titles
	}
	return nil
}

// LogPath returns where the log file goes: log_file, else the XDG state dir
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, appName, appName+".log"), nil
}

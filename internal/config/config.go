// Package config loads the user's settings from a YAML file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDirName = "time-tracker"

	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultTimeAdjustMinutes = 5
	MaxTimeAdjustMinutes     = 120
)

// Config holds the settings the front end persists between runs.
type Config struct {
	Theme             string `yaml:"theme"`
	TimeAdjustMinutes int    `yaml:"time_adjust_minutes"`
	DBPath            string `yaml:"db_path,omitempty"`

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Theme:             ThemeDark,
		TimeAdjustMinutes: DefaultTimeAdjustMinutes,
	}
}

// Dir returns the application directory: $XDG_CONFIG_HOME/time-tracker when
// set, otherwise the OS user config dir.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName), nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, appDirName), nil
}

// Load reads config.yaml from Dir. A missing file yields the defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

// LoadFile reads the config at path; Save writes back to the same path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Path is where Save writes.
func (c *Config) Path() string { return c.path }

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	c.applyDefaults()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// applyDefaults replaces missing or out-of-range values field by field.
func (c *Config) applyDefaults() {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		c.Theme = ThemeDark
	}
	if c.TimeAdjustMinutes <= 0 {
		c.TimeAdjustMinutes = DefaultTimeAdjustMinutes
	}
	if c.TimeAdjustMinutes > MaxTimeAdjustMinutes {
		c.TimeAdjustMinutes = MaxTimeAdjustMinutes
	}
}

// TimeAdjustSeconds is the +/- step in seconds.
func (c *Config) TimeAdjustSeconds() int64 {
	return int64(c.TimeAdjustMinutes) * 60
}

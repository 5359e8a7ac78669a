package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"

	defaultMaxEventsPerDay = 3
	defaultCacheMaxAge     = 7 * 24 * time.Hour
)

// Config is the user configuration read from config.yaml.
type Config struct {
	// EventsFile is a local .json, .yaml or .ics file. When empty the cache
	// written by `evently -u` is used.
	EventsFile string `yaml:"events_file"`

	// SourceURL is the JSON events file downloaded by `evently -u`.
	SourceURL string `yaml:"source_url"`

	// WeekStart is "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start"`

	// Lunar adds Chinese lunar day names under each date.
	Lunar bool `yaml:"lunar"`

	NoColor bool `yaml:"no_color"`

	// MaxEventsPerDay caps the chips drawn in one cell; the rest collapse
	// into "+N more".
	MaxEventsPerDay int `yaml:"max_events_per_day"`

	// CacheMaxAge is how long a downloaded events file is considered current.
	CacheMaxAge time.Duration `yaml:"cache_max_age"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		WeekStart:       WeekStartSunday,
		MaxEventsPerDay: defaultMaxEventsPerDay,
		CacheMaxAge:     defaultCacheMaxAge,
		LogLevel:        "info",
	}
}

// Normalize fills zero values and resets unknown ones to defaults.
func (c *Config) Normalize() {
	switch c.WeekStart {
	case WeekStartSunday, WeekStartMonday:
	default:
		c.WeekStart = WeekStartSunday
	}
	if c.MaxEventsPerDay <= 0 {
		c.MaxEventsPerDay = defaultMaxEventsPerDay
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = defaultCacheMaxAge
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// FirstWeekday converts WeekStart to a time.Weekday.
func (c *Config) FirstWeekday() time.Weekday {
	if c.WeekStart == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// DefaultPath is $XDG_CONFIG_HOME/evently/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "evently", "config.yaml"), nil
}

// Load reads the YAML file at path. A missing file yields DefaultConfig and
// no error; nothing is written.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".evently-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

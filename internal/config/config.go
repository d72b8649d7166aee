// Package config handles configuration loading, validation, and hot reload
// for capsnav.
//
// The configuration covers the process around the filter: logging, event
// tracing and the run ledger. The remap layer itself is fixed and has no
// configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"capsnav/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete process configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Trace configuration for per-event debug logging.
	Trace TraceConfig `toml:"trace" json:"trace" yaml:"trace"`

	// Stats configuration for the run ledger.
	Stats StatsConfig `toml:"stats" json:"stats" yaml:"stats"`

	// Watch configuration for hot reload.
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is text or json.
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is stderr or file. Stdout carries events and is not allowed.
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output is file.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// TraceConfig controls logging of every key event.
type TraceConfig struct {
	// Enabled logs each decoded key event at debug level. This records
	// keystrokes; leave it off outside of debugging sessions.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
}

// StatsConfig controls the SQLite run ledger.
type StatsConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// WatchConfig controls config file hot reload.
type WatchConfig struct {
	Enabled    bool `toml:"enabled" json:"enabled" yaml:"enabled"`
	DebounceMs int  `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   logging.DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Stats: StatsConfig{
			Path: DefaultStatsPath(),
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 100,
		},
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies CAPSNAV_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CAPSNAV_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CAPSNAV_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CAPSNAV_LOG_PATH"); v != "" {
		c.Logging.Output = "file"
		c.Logging.FilePath = v
	}
	if v := os.Getenv("CAPSNAV_TRACE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Trace.Enabled = b
		}
	}
	if v := os.Getenv("CAPSNAV_STATS_PATH"); v != "" {
		c.Stats.Enabled = true
		c.Stats.Path = v
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LoggerConfig converts the logging section for logging.New.
func (c *Config) LoggerConfig() (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	lc.Output = c.Logging.Output
	lc.FilePath = c.Logging.FilePath
	lc.MaxSize = int64(c.Logging.MaxSizeMB)
	lc.MaxBackups = c.Logging.MaxBackups
	return lc, nil
}

// Encode renders the configuration in the format implied by ext
// (".toml", ".json", ".yaml" or ".yml"). Unknown extensions use TOML.
func (c *Config) Encode(ext string) ([]byte, error) {
	switch ext {
	case ".json":
		return json.MarshalIndent(c, "", "  ")
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(cfg *Config, path string) error {
	data, err := cfg.Encode(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

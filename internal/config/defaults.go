package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns $XDG_CONFIG_HOME/capsnav.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "capsnav")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "capsnav")
}

// StateDir returns $XDG_STATE_HOME/capsnav.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "capsnav")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "capsnav")
}

// DefaultStatsPath returns the default run ledger location.
func DefaultStatsPath() string {
	return filepath.Join(StateDir(), "runs.db")
}

// SupportedConfigFormats lists the accepted config file extensions.
func SupportedConfigFormats() []string {
	return []string{"toml", "json", "yaml", "yml"}
}

// ConfigPath returns the config file to use: $CAPSNAV_CONFIG if set, else
// the first config.<ext> found in ConfigDir, else ConfigDir/config.toml.
func ConfigPath() string {
	if p := os.Getenv("CAPSNAV_CONFIG"); p != "" {
		return p
	}
	if p := FindConfigFile(); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// FindConfigFile returns the first config.<ext> in ConfigDir, or "".
func FindConfigFile() string {
	dir := ConfigDir()
	for _, ext := range SupportedConfigFormats() {
		path := filepath.Join(dir, "config."+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Trace.Enabled {
		t.Error("trace should be off by default")
	}
	if cfg.Stats.Enabled {
		t.Error("stats should be off by default")
	}
	if !strings.HasSuffix(cfg.Stats.Path, filepath.Join("capsnav", "runs.db")) {
		t.Errorf("unexpected stats path %s", cfg.Stats.Path)
	}
}

func TestLoadNonexistent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"config.toml", "version = 1\n[logging]\nlevel = \"debug\"\n[trace]\nenabled = true\n"},
		{"config.json", `{"version": 1, "logging": {"level": "debug"}, "trace": {"enabled": true}}`},
		{"config.yaml", "version: 1\nlogging:\n  level: debug\ntrace:\n  enabled: true\n"},
		{"config", "version = 1\n[logging]\nlevel = \"debug\"\n[trace]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			writeFile(t, path, tt.content)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("expected level debug, got %s", cfg.Logging.Level)
			}
			if !cfg.Trace.Enabled {
				t.Error("expected trace enabled")
			}
			// Unset fields keep their defaults.
			if cfg.Logging.Output != "stderr" {
				t.Errorf("expected default output, got %s", cfg.Logging.Output)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad level", "[logging]\nlevel = \"loud\"\n", "schema"},
		{"stdout output", "[logging]\noutput = \"stdout\"\n", "schema"},
		{"negative debounce", "[watch]\ndebounce_ms = -5\n", "schema"},
		{"file without path", "[logging]\noutput = \"file\"\nfile_path = \"\"\n", "logging.file_path"},
		{"stats without path", "[stats]\nenabled = true\npath = \"\"\n", "stats.path"},
		{"future version", "version = 9\n", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("expected field %s, got %s (%v)", tt.field, verrs[0].Field, err)
			}
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[logging\nlevel=")
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CAPSNAV_LOG_LEVEL", "warn")
	t.Setenv("CAPSNAV_LOG_FORMAT", "json")
	t.Setenv("CAPSNAV_TRACE", "true")
	t.Setenv("CAPSNAV_STATS_PATH", "/tmp/capsnav-runs.db")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected format json, got %s", cfg.Logging.Format)
	}
	if !cfg.Trace.Enabled {
		t.Error("expected trace enabled")
	}
	if !cfg.Stats.Enabled || cfg.Stats.Path != "/tmp/capsnav-runs.db" {
		t.Errorf("unexpected stats config %+v", cfg.Stats)
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CAPSNAV_CONFIG", "")

	if got := ConfigPath(); got != filepath.Join(dir, "capsnav", "config.toml") {
		t.Errorf("unexpected default path %s", got)
	}

	yamlPath := filepath.Join(dir, "capsnav", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(yamlPath), 0700); err != nil {
		t.Fatal(err)
	}
	writeFile(t, yamlPath, "version: 1\n")
	if got := ConfigPath(); got != yamlPath {
		t.Errorf("expected discovered yaml config, got %s", got)
	}

	t.Setenv("CAPSNAV_CONFIG", "/etc/capsnav.toml")
	if got := ConfigPath(); got != "/etc/capsnav.toml" {
		t.Errorf("expected env path, got %s", got)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "config"+ext)
			cfg := DefaultConfig()
			cfg.Logging.Level = "error"
			cfg.Stats.Enabled = true

			if err := SaveConfig(cfg, path); err != nil {
				t.Fatalf("SaveConfig: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *got != *cfg {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
			}
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"
	cfg.Logging.MaxSizeMB = 5

	lc, err := cfg.LoggerConfig()
	if err != nil {
		t.Fatalf("LoggerConfig: %v", err)
	}
	if lc.MaxSize != 5 || lc.Output != "stderr" {
		t.Errorf("unexpected logger config %+v", lc)
	}

	cfg.Logging.Level = "loud"
	if _, err := cfg.LoggerConfig(); err == nil {
		t.Error("expected error for bad level")
	}
}

func TestLoaderWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[logging]\nlevel = \"info\"\n[watch]\ndebounce_ms = 10\n")

	loader := NewLoader(path)
	if _, err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	changed := make(chan *Config, 1)
	loader.OnChange(func(old, new *Config) {
		if old.Logging.Level != "info" {
			t.Errorf("unexpected old level %s", old.Logging.Level)
		}
		select {
		case changed <- new:
		default:
		}
	})
	if err := loader.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer loader.Close()

	writeFile(t, path, "[logging]\nlevel = \"debug\"\n[watch]\ndebounce_ms = 10\n")

	select {
	case cfg := <-changed:
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected reloaded level debug, got %s", cfg.Logging.Level)
		}
		if loader.Config().Logging.Level != "debug" {
			t.Error("loader did not keep the reloaded config")
		}
	case err := <-loader.Errors():
		t.Fatalf("reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestLoaderKeepsConfigOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[watch]\ndebounce_ms = 10\n")

	loader := NewLoader(path)
	if _, err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loader.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer loader.Close()

	writeFile(t, path, "[logging]\nlevel = \"loud\"\n")

	select {
	case err := <-loader.Errors():
		if err == nil {
			t.Fatal("expected an error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
	if loader.Config().Logging.Level != "info" {
		t.Errorf("config changed after failed reload: %s", loader.Config().Logging.Level)
	}
}

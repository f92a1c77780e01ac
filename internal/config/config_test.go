package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	EnvConfigPath,
	"BILLCMP_LOG_LEVEL",
	"BILLCMP_LOG_FORMAT",
	"BILLCMP_LENIENT_NUMBERS",
	"BILLCMP_WATCH_DEBOUNCE",
	"BILLCMP_MAX_PARALLEL",
	"BILLCMP_EXPORT_DIR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:    "upper case log level",
			mutate:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "negative debounce",
			mutate:      func(c *Config) { c.WatchDebounce = -time.Second },
			wantErr:     true,
			errorString: "must not be negative",
		},
		{
			name:        "debounce too long",
			mutate:      func(c *Config) { c.WatchDebounce = 2 * time.Minute },
			wantErr:     true,
			errorString: "must be at most 1 minute",
		},
		{
			name:        "max parallel zero",
			mutate:      func(c *Config) { c.MaxParallel = 0 },
			wantErr:     true,
			errorString: "invalid max parallel 0: must be at least 1",
		},
		{
			name:        "max parallel too high",
			mutate:      func(c *Config) { c.MaxParallel = 100 },
			wantErr:     true,
			errorString: "invalid max parallel 100: must be at most 64",
		},
		{
			name:        "empty export dir",
			mutate:      func(c *Config) { c.ExportDir = "" },
			wantErr:     true,
			errorString: "export directory cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.MaxParallel = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "log level") || !strings.Contains(err.Error(), "max parallel") {
		t.Errorf("expected both problems reported, got %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLCMP_LOG_LEVEL", "debug")
		t.Setenv("BILLCMP_LOG_FORMAT", "json")
		t.Setenv("BILLCMP_LENIENT_NUMBERS", "true")
		t.Setenv("BILLCMP_WATCH_DEBOUNCE", "1s")
		t.Setenv("BILLCMP_MAX_PARALLEL", "8")
		t.Setenv("BILLCMP_EXPORT_DIR", "/tmp/reports")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || !cfg.LenientNumbers {
			t.Errorf("unexpected logging/loader config: %+v", cfg)
		}
		if cfg.WatchDebounce != time.Second || cfg.MaxParallel != 8 || cfg.ExportDir != "/tmp/reports" {
			t.Errorf("unexpected cli config: %+v", cfg)
		}
	})

	t.Run("invalid environment values keep defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLCMP_LENIENT_NUMBERS", "maybe")
		t.Setenv("BILLCMP_WATCH_DEBOUNCE", "soon")
		t.Setenv("BILLCMP_MAX_PARALLEL", "many")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		def := Default()
		if cfg.LenientNumbers != def.LenientNumbers || cfg.WatchDebounce != def.WatchDebounce || cfg.MaxParallel != def.MaxParallel {
			t.Errorf("expected defaults for invalid values, got %+v", cfg)
		}
	})

	t.Run("file then environment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "billcmp.toml")
		content := `
[log]
level = "warn"
format = "json"

[loader]
lenient_numbers = true

[cli]
watch_debounce = "500ms"
max_parallel = 2
export_dir = "out"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv("BILLCMP_MAX_PARALLEL", "3")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogLevel != "warn" || cfg.LogFormat != "json" || !cfg.LenientNumbers {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.WatchDebounce != 500*time.Millisecond || cfg.ExportDir != "out" {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.MaxParallel != 3 {
			t.Errorf("environment should override file, got %d", cfg.MaxParallel)
		}
	})

	t.Run("config path from environment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "billcmp.toml")
		if err := os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(EnvConfigPath, path)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("expected level from %s, got %q", EnvConfigPath, cfg.LogLevel)
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[log\nlevel="), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("expected decode error")
		}
	})

	t.Run("bad debounce in file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[cli]\nwatch_debounce = \"later\"\n"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "watch_debounce") {
			t.Fatalf("expected watch_debounce error, got %v", err)
		}
	})
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Loader
	LenientNumbers bool

	// CLI
	WatchDebounce time.Duration
	MaxParallel   int
	ExportDir     string
}

// fileConfig mirrors Config in the TOML config file.
type fileConfig struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Loader struct {
		LenientNumbers *bool `toml:"lenient_numbers"`
	} `toml:"loader"`
	CLI struct {
		WatchDebounce string `toml:"watch_debounce"`
		MaxParallel   int    `toml:"max_parallel"`
		ExportDir     string `toml:"export_dir"`
	} `toml:"cli"`
}

const EnvConfigPath = "BILLCMP_CONFIG"

func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		LenientNumbers: false,
		WatchDebounce:  250 * time.Millisecond,
		MaxParallel:    4,
		ExportDir:      ".",
	}
}

// Load builds the configuration from defaults, then the TOML file at path (or at
// $BILLCMP_CONFIG when path is empty), then environment variables.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = getEnv("BILLCMP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("BILLCMP_LOG_FORMAT", cfg.LogFormat)
	cfg.LenientNumbers = getEnvBool("BILLCMP_LENIENT_NUMBERS", cfg.LenientNumbers)
	cfg.WatchDebounce = getEnvDuration("BILLCMP_WATCH_DEBOUNCE", cfg.WatchDebounce)
	cfg.MaxParallel = getEnvInt("BILLCMP_MAX_PARALLEL", cfg.MaxParallel)
	cfg.ExportDir = getEnv("BILLCMP_EXPORT_DIR", cfg.ExportDir)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.LogFormat = fc.Log.Format
	}
	if fc.Loader.LenientNumbers != nil {
		c.LenientNumbers = *fc.Loader.LenientNumbers
	}
	if fc.CLI.WatchDebounce != "" {
		d, err := time.ParseDuration(fc.CLI.WatchDebounce)
		if err != nil {
			return fmt.Errorf("config %s: invalid watch_debounce %q: %w", path, fc.CLI.WatchDebounce, err)
		}
		c.WatchDebounce = d
	}
	if fc.CLI.MaxParallel != 0 {
		c.MaxParallel = fc.CLI.MaxParallel
	}
	if fc.CLI.ExportDir != "" {
		c.ExportDir = fc.CLI.ExportDir
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if c.WatchDebounce < 0 {
		errors = append(errors, fmt.Sprintf("invalid watch debounce %v: must not be negative", c.WatchDebounce))
	} else if c.WatchDebounce > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid watch debounce %v: must be at most 1 minute", c.WatchDebounce))
	}

	if c.MaxParallel < 1 {
		errors = append(errors, fmt.Sprintf("invalid max parallel %d: must be at least 1", c.MaxParallel))
	} else if c.MaxParallel > 64 {
		errors = append(errors, fmt.Sprintf("invalid max parallel %d: must be at most 64", c.MaxParallel))
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"billcmp/internal/config"
)

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("BILLCMP_LOG_LEVEL", "")
	t.Setenv("BILLCMP_MAX_PARALLEL", "")
	t.Setenv(config.EnvConfigPath, "")

	cfg, err := LoadAndValidateConfig("")
	if err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.MaxParallel != config.Default().MaxParallel {
		t.Errorf("unexpected config: %+v", cfg)
	}

	t.Setenv("BILLCMP_MAX_PARALLEL", "0")
	if _, err := LoadAndValidateConfig(""); err == nil {
		t.Error("expected validation error for max parallel 0")
	}
}

func TestLoadAndValidateConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadAndValidateConfig(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	logger := SetupLogger(cfg)
	if logger == nil || logger.Component() != "app" {
		t.Fatalf("unexpected logger: %+v", logger)
	}
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(SetupLogger(config.Default()))
	cancel()
	<-ctx.Done()
}

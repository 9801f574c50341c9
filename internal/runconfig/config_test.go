package runconfig

import "testing"

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	t.Setenv("COMPFLOW_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level \"info\", got %q", cfg.LogLevel)
	}
	if cfg.DefaultGroup != "single" {
		t.Fatalf("expected default group \"single\", got %q", cfg.DefaultGroup)
	}
	if cfg.ObserverBufferSize != 64 {
		t.Fatalf("expected default observer buffer size 64, got %d", cfg.ObserverBufferSize)
	}
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	t.Setenv("COMPFLOW_CONFIG_DIR", t.TempDir())
	t.Setenv("COMPFLOW_LOG_LEVEL", "debug")
	t.Setenv("COMPFLOW_OBSERVER_BUFFER_SIZE", "128")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env override \"debug\", got %q", cfg.LogLevel)
	}
	if cfg.ObserverBufferSize != 128 {
		t.Fatalf("expected env override 128, got %d", cfg.ObserverBufferSize)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Storage.DatabasePath == "" {
		t.Fatal("expected a default database path")
	}
	if cfg.Executor.CountdownTicks != 3 {
		t.Fatalf("expected 3 countdown ticks, got %d", cfg.Executor.CountdownTicks)
	}
	if cfg.ExecutorTimeout() != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.ExecutorTimeout())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termdate.yaml")
	data := []byte("storage:\n  database_path: /tmp/other.db\nexecutor:\n  timeout: 2s\nui:\n  theme: light\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.DatabasePath != "/tmp/other.db" {
		t.Fatalf("database path not overridden: %s", cfg.Storage.DatabasePath)
	}
	if cfg.ExecutorTimeout() != 2*time.Second {
		t.Fatalf("timeout not overridden: %v", cfg.ExecutorTimeout())
	}
	if cfg.UI.Theme != "light" {
		t.Fatalf("theme not overridden: %s", cfg.UI.Theme)
	}
	// Unset values keep their defaults.
	if cfg.Executor.CountdownTicks != 3 {
		t.Fatalf("countdown default lost: %d", cfg.Executor.CountdownTicks)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":::"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExecutorTimeoutFallback(t *testing.T) {
	cfg := Default()
	cfg.Executor.Timeout = "banana"
	if cfg.ExecutorTimeout() != 5*time.Second {
		t.Fatalf("expected fallback timeout, got %v", cfg.ExecutorTimeout())
	}
}

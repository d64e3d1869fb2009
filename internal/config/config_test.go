package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALFRED_PASSCODE", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Passcode != "s3cret" {
		t.Errorf("Passcode = %q, want %q", cfg.Passcode, "s3cret")
	}
	if cfg.CachePath != "alfred-cache.db" {
		t.Errorf("CachePath = %q", cfg.CachePath)
	}
	if cfg.WebDir != "web" {
		t.Errorf("WebDir = %q", cfg.WebDir)
	}
	if cfg.ConnDeadline != 30*time.Second {
		t.Errorf("ConnDeadline = %v", cfg.ConnDeadline)
	}
	if cfg.MaxConns != 256 {
		t.Errorf("MaxConns = %d", cfg.MaxConns)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALFRED_PASSCODE", "s3cret")
	t.Setenv("ALFRED_PORT", "9090")
	t.Setenv("ALFRED_CONN_DEADLINE", "5s")
	t.Setenv("ALFRED_MAX_CONNS", "16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ConnDeadline != 5*time.Second {
		t.Errorf("ConnDeadline = %v, want 5s", cfg.ConnDeadline)
	}
	if cfg.MaxConns != 16 {
		t.Errorf("MaxConns = %d, want 16", cfg.MaxConns)
	}
}

func TestLoadRequiresPasscode(t *testing.T) {
	t.Setenv("ALFRED_PASSCODE", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without a passcode")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("ALFRED_PASSCODE", "s3cret")
	t.Setenv("ALFRED_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an out-of-range port")
	}
}

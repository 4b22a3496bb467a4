package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.NewsCacheTTL != 5*time.Minute {
		t.Errorf("expected default news cache TTL 5m, got %s", cfg.NewsCacheTTL)
	}
	if cfg.EmailProvider != "off" {
		t.Errorf("expected email provider off by default, got %s", cfg.EmailProvider)
	}
}

func TestStoreDSNPreference(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://rw", DatabaseURLRO: "postgres://ro"}
	if cfg.StoreDSN() != "postgres://rw" {
		t.Errorf("read-write DSN should win, got %s", cfg.StoreDSN())
	}
	if !cfg.StoreWritable() {
		t.Error("StoreWritable should be true with a read-write DSN")
	}

	cfg = &Config{DatabaseURLRO: "postgres://ro"}
	if cfg.StoreDSN() != "postgres://ro" {
		t.Errorf("read-only DSN should be the fallback, got %s", cfg.StoreDSN())
	}
	if cfg.StoreWritable() {
		t.Error("StoreWritable should be false with only a read-only DSN")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "nope")
	t.Setenv("TEST_DUR", "30s")
	t.Setenv("TEST_SLICE", "https://a.example, https://b.example ,")

	if v := getEnvAsInt("TEST_INT", 0); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if v := getEnvAsInt("TEST_BAD_INT", 7); v != 7 {
		t.Errorf("expected fallback 7, got %d", v)
	}
	if v := getEnvAsDuration("TEST_DUR", time.Minute); v != 30*time.Second {
		t.Errorf("expected 30s, got %s", v)
	}
	if v := getEnvAsSlice("TEST_SLICE"); len(v) != 2 || v[1] != "https://b.example" {
		t.Errorf("unexpected slice %v", v)
	}
}

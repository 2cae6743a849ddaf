package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	"VENUE_SCHEDULER_HTTP_PORT",
	"VENUE_SCHEDULER_SQLITE_DSN",
	"VENUE_SCHEDULER_VENUES_FILE",
	"VENUE_SCHEDULER_REFRESH_INTERVAL",
	"VENUE_SCHEDULER_CACHE_TTL",
	"VENUE_SCHEDULER_CACHE_MAX_ENTRIES",
	"VENUE_SCHEDULER_MAX_CALENDAR_DAYS",
	"VENUE_SCHEDULER_SHUTDOWN_TIMEOUT",
	"VENUE_SCHEDULER_LOG_LEVEL",
	"VENUE_SCHEDULER_LOG_FORMAT",
	"VENUE_SCHEDULER_IGNORED_STATUSES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		// t.Setenv restores the previous value after the test.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "venues.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.RefreshInterval != time.Minute {
			t.Fatalf("unexpected default refresh interval: %v", cfg.RefreshInterval)
		}
		if len(cfg.IgnoredStatuses) != 2 || cfg.IgnoredStatuses[0] != "cancelled" || cfg.IgnoredStatuses[1] != "lost" {
			t.Fatalf("unexpected default ignored statuses: %v", cfg.IgnoredStatuses)
		}
		if cfg.LogFormat != "json" || cfg.LogLevel != "info" {
			t.Fatalf("unexpected log defaults: %s/%s", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VENUE_SCHEDULER_HTTP_PORT", "9090")
		t.Setenv("VENUE_SCHEDULER_SQLITE_DSN", "file:resort.db")
		t.Setenv("VENUE_SCHEDULER_REFRESH_INTERVAL", "15s")
		t.Setenv("VENUE_SCHEDULER_CACHE_TTL", "2m")
		t.Setenv("VENUE_SCHEDULER_LOG_LEVEL", "DEBUG")
		t.Setenv("VENUE_SCHEDULER_LOG_FORMAT", "text")
		t.Setenv("VENUE_SCHEDULER_IGNORED_STATUSES", " Cancelled , ,Void ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file:resort.db" {
			t.Fatalf("unexpected overrides: %+v", cfg)
		}
		if cfg.RefreshInterval != 15*time.Second || cfg.CacheTTL != 2*time.Minute {
			t.Fatalf("unexpected durations: %v %v", cfg.RefreshInterval, cfg.CacheTTL)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "text" {
			t.Fatalf("unexpected log settings: %s/%s", cfg.LogLevel, cfg.LogFormat)
		}
		if len(cfg.IgnoredStatuses) != 2 || cfg.IgnoredStatuses[0] != "cancelled" || cfg.IgnoredStatuses[1] != "void" {
			t.Fatalf("unexpected ignored statuses: %v", cfg.IgnoredStatuses)
		}
	})

	t.Run("empty ignored statuses disables filtering", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VENUE_SCHEDULER_IGNORED_STATUSES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if len(cfg.IgnoredStatuses) != 0 {
			t.Fatalf("expected no ignored statuses, got %v", cfg.IgnoredStatuses)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VENUE_SCHEDULER_HTTP_PORT", "not-a-number")
		t.Setenv("VENUE_SCHEDULER_CACHE_TTL", "-1s")
		t.Setenv("VENUE_SCHEDULER_LOG_FORMAT", "xml")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variables: VENUE_SCHEDULER_HTTP_PORT, VENUE_SCHEDULER_CACHE_TTL, VENUE_SCHEDULER_LOG_FORMAT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("VENUE_SCHEDULER_HTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 7070 {
		t.Fatalf("expected port from .env, got %d", cfg.HTTPPort)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

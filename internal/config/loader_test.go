package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"ROOMBOOK_HTTP_PORT",
			"ROOMBOOK_BACKEND_TIMEOUT",
			"ROOMBOOK_TIMEZONE",
			"ROOMBOOK_MIN_HOUR",
			"ROOMBOOK_MAX_HOUR",
			"ROOMBOOK_MAX_FORWARD_DAYS",
			"ROOMBOOK_SELECTION_TTL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		const backendURL = "http://backend.internal:9000"
		t.Setenv("ROOMBOOK_BACKEND_URL", backendURL)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.BackendURL != backendURL {
			t.Fatalf("expected backend URL %q, got %q", backendURL, cfg.BackendURL)
		}
		if cfg.MinHour != 9 || cfg.MaxHour != 18 {
			t.Fatalf("expected default business hours 9-18, got %d-%d", cfg.MinHour, cfg.MaxHour)
		}
		if cfg.MaxForwardDays != 30 {
			t.Fatalf("expected default forward window 30 days, got %d", cfg.MaxForwardDays)
		}
		if cfg.SelectionTTL != 15*time.Minute {
			t.Fatalf("expected default selection TTL 15m, got %s", cfg.SelectionTTL)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		for _, key := range []string{
			"ROOMBOOK_BACKEND_URL",
			"ROOMBOOK_HTTP_PORT",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: ROOMBOOK_BACKEND_URL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("ROOMBOOK_BACKEND_URL", "http://backend.internal:9000")
		t.Setenv("ROOMBOOK_HTTP_PORT", "9090")
		t.Setenv("ROOMBOOK_BACKEND_TIMEOUT", "5s")
		t.Setenv("ROOMBOOK_MIN_HOUR", "8")
		t.Setenv("ROOMBOOK_MAX_HOUR", "20")
		t.Setenv("ROOMBOOK_MAX_FORWARD_DAYS", "14")
		t.Setenv("ROOMBOOK_SELECTION_TTL", "30m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.BackendTimeout != 5*time.Second {
			t.Fatalf("expected backend timeout 5s, got %s", cfg.BackendTimeout)
		}
		if cfg.MinHour != 8 || cfg.MaxHour != 20 {
			t.Fatalf("expected business hours 8-20, got %d-%d", cfg.MinHour, cfg.MaxHour)
		}
		if cfg.MaxForwardDays != 14 {
			t.Fatalf("expected forward window 14 days, got %d", cfg.MaxForwardDays)
		}
		if cfg.SelectionTTL != 30*time.Minute {
			t.Fatalf("expected selection TTL 30m, got %s", cfg.SelectionTTL)
		}
	})

	t.Run("rejects invalid values with a combined error", func(t *testing.T) {
		t.Setenv("ROOMBOOK_BACKEND_URL", "http://backend.internal:9000")
		t.Setenv("ROOMBOOK_HTTP_PORT", "not-a-port")
		t.Setenv("ROOMBOOK_SELECTION_TTL", "soon")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "environment variables have invalid values: ROOMBOOK_HTTP_PORT, ROOMBOOK_SELECTION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects an inverted business hour window", func(t *testing.T) {
		t.Setenv("ROOMBOOK_BACKEND_URL", "http://backend.internal:9000")
		t.Setenv("ROOMBOOK_MIN_HOUR", "18")
		t.Setenv("ROOMBOOK_MAX_HOUR", "9")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for inverted business hours")
		}
	})
}

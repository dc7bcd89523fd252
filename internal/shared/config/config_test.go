package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HW_CONFIG_FILE", "")
	t.Setenv("ENV", "")
	t.Setenv("BUSINESS_TIMEZONE", "")
	t.Setenv("FEEDBACK_EDIT_WINDOW", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.BusinessTimezone != DefaultBusinessTimezone {
		t.Fatalf("expected default timezone, got %q", cfg.BusinessTimezone)
	}
	if cfg.FeedbackEditWindow != 48*time.Hour {
		t.Fatalf("expected 48h edit window, got %s", cfg.FeedbackEditWindow)
	}
}

func TestLoadFileOverlayAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hirewise.yaml")
	body := []byte("port: \"9090\"\nbusinessTimezone: Europe/Berlin\nfeedbackEditWindow: 24h\nrateLimit:\n  rps: 2\n  burst: 4\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HW_CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("BUSINESS_TIMEZONE", "")
	t.Setenv("FEEDBACK_EDIT_WINDOW", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("env should win over file, got port %q", cfg.Port)
	}
	if cfg.BusinessTimezone != "Europe/Berlin" {
		t.Fatalf("expected file timezone, got %q", cfg.BusinessTimezone)
	}
	if cfg.FeedbackEditWindow != 24*time.Hour {
		t.Fatalf("expected 24h window, got %s", cfg.FeedbackEditWindow)
	}
	if cfg.RateLimitRPS != 2 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":        "production",
		"Production":  "production",
		"development": "dev",
		"":            "dev",
		"local":       "local",
	}
	for in, want := range cases {
		if got := normalizeEnv(in); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

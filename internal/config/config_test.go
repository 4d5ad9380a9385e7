package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("SIDE_EFFECT_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected development env by default, got %q", cfg.AppEnv)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.ShutdownPeriod != 10*time.Second || cfg.SideEffectTimeout != 2*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("unexpected log format %q", cfg.LogFormat)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("SIDE_EFFECT_TIMEOUT", "750ms")
	t.Setenv("DATABASE_MAX_CONNS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address() != ":9090" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.ShutdownPeriod != 3*time.Second || cfg.SideEffectTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.DatabaseMaxConns != 4 {
		t.Fatalf("unexpected max conns %d", cfg.DatabaseMaxConns)
	}
}

func TestLoadRequiresBackendsOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing DATABASE_URL to fail in production")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/payinstr")
	t.Setenv("REDIS_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing REDIS_URL to fail in production")
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid shutdown seconds to fail")
	}

	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")
	t.Setenv("SIDE_EFFECT_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected non-positive side effect timeout to fail")
	}
}

func TestLoadRateLimit(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("unexpected default rate limit %d", cfg.RateLimitPerMinute)
	}

	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	if cfg, err = Load(); err != nil || cfg.RateLimitPerMinute != 0 {
		t.Fatalf("expected disabled rate limit, got %d (%v)", cfg.RateLimitPerMinute, err)
	}

	t.Setenv("RATE_LIMIT_PER_MINUTE", "-3")
	if _, err := Load(); err == nil {
		t.Fatalf("expected negative rate limit to fail")
	}
}

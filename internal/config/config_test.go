package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_HOST", "REDIS_PORT", "APP_MODE", "BROWSER_TIMEOUT"} {
		os.Unsetenv(k)
	}

	cfg := Load()
	if cfg.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.AppMode != ModeBoth {
		t.Fatalf("expected default mode %q, got %q", ModeBoth, cfg.AppMode)
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Fatalf("expected default redis addr localhost:6379, got %q", cfg.RedisAddr())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	os.Setenv("PORT", "8080")
	os.Setenv("REDIS_HOST", "redis.internal")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("APP_MODE", "worker")
	os.Setenv("BROWSER_TIMEOUT", "45s")
	defer func() {
		for _, k := range []string{"PORT", "REDIS_HOST", "REDIS_PORT", "APP_MODE", "BROWSER_TIMEOUT"} {
			os.Unsetenv(k)
		}
	}()

	cfg := Load()
	if cfg.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.RedisAddr() != "redis.internal:6380" {
		t.Fatalf("expected redis.internal:6380, got %q", cfg.RedisAddr())
	}
	if cfg.AppMode != ModeWorker {
		t.Fatalf("expected mode worker, got %q", cfg.AppMode)
	}
	if cfg.BrowserTimeout != 45*time.Second {
		t.Fatalf("expected 45s browser timeout, got %v", cfg.BrowserTimeout)
	}
}

func TestValidate_RejectsUnknownAppMode(t *testing.T) {
	cfg := Load()
	cfg.AppMode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for unknown APP_MODE")
	}
}

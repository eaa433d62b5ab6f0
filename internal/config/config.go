// Package config builds the process-wide Config record from the
// environment. All deployment-tunable knobs are environment
// variables; everything else (locale tables, selector lists) lives in
// internal/localedata as shipped-with-the-binary reference data.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppMode selects which subsystems a process starts.
type AppMode string

const (
	ModeAPI    AppMode = "api"
	ModeWorker AppMode = "worker"
	ModeBoth   AppMode = "both"
)

// Config is a typed, closed configuration record. It replaces
// duck-typed reads scattered across packages with a single value
// built once at startup and passed down through constructors.
type Config struct {
	Port int

	RedisHost     string
	RedisPort     int
	RedisPassword string

	MaxBrowserInstances int
	BrowserTimeout      time.Duration
	WorkerConcurrency   int

	LogLevel string
	AppMode  AppMode

	// Retention knobs. These are engineering defaults rather than
	// deployment knobs: spec.md §6 does not list them as recognized
	// environment keys, so they are not read from the environment.
	RetainCompleted int
	RetainFailed    int
	StallInterval   time.Duration
	MaxAttempts     int
	BackoffBase     time.Duration

	// Worker fleet knobs.
	SlotsPerWorker int

	// HTTP progress-stream poll interval (spec §4.8: "poll interval is
	// a server-side constant").
	StreamPollInterval time.Duration
}

// Load builds a Config from the process environment, applying the
// defaults named in spec.md §6.
func Load() *Config {
	cfg := &Config{
		Port:                envInt("PORT", 3000),
		RedisHost:           envString("REDIS_HOST", "localhost"),
		RedisPort:           envInt("REDIS_PORT", 6379),
		RedisPassword:       envString("REDIS_PASSWORD", ""),
		MaxBrowserInstances: envInt("MAX_BROWSER_INSTANCES", 5),
		BrowserTimeout:      envDuration("BROWSER_TIMEOUT", 30*time.Second),
		WorkerConcurrency:   envInt("WORKER_CONCURRENCY", 4),
		LogLevel:            envString("LOG_LEVEL", "info"),
		AppMode:             AppMode(envString("APP_MODE", string(ModeBoth))),

		RetainCompleted: 100,
		RetainFailed:    50,
		StallInterval:   30 * time.Second,
		MaxAttempts:     3,
		BackoffBase:     2 * time.Second,

		SlotsPerWorker: 4,

		StreamPollInterval: 2 * time.Second,
	}
	return cfg
}

// Validate performs basic sanity checks, failing fast at startup
// rather than during the first request.
func (cfg *Config) Validate() error {
	switch cfg.AppMode {
	case ModeAPI, ModeWorker, ModeBoth:
	default:
		return fmt.Errorf("unsupported APP_MODE: %s", cfg.AppMode)
	}
	if cfg.Port <= 0 {
		return fmt.Errorf("PORT must be positive, got %d", cfg.Port)
	}
	if cfg.MaxBrowserInstances <= 0 {
		return fmt.Errorf("MAX_BROWSER_INSTANCES must be positive, got %d", cfg.MaxBrowserInstances)
	}
	if cfg.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", cfg.WorkerConcurrency)
	}
	return nil
}

// RedisAddr returns the host:port pair expected by redis.Options.
func (cfg *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

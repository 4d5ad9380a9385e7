package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "PayInstr"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultShutdownDelay     = 10 * time.Second
	defaultSideEffectTimeout = 2 * time.Second
	defaultDBMaxConns        = 10
	defaultScheduleKey       = "payinstr:v1:scheduled"
	defaultRateLimit         = 120
	shutdownSecondsEnvVar    = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar   = "SHUTDOWN_TIMEOUT"
	sideEffectEnvVar         = "SIDE_EFFECT_TIMEOUT"
	dbMaxConnsEnvVar         = "DATABASE_MAX_CONNS"
	rateLimitEnvVar          = "RATE_LIMIT_PER_MINUTE"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName            string
	AppEnv             string
	Port               string
	LogLevel           string
	LogFormat          string
	DatabaseURL        string
	DatabaseMaxConns   int32
	RedisURL           string
	ScheduleKey        string
	ShutdownPeriod     time.Duration
	SideEffectTimeout  time.Duration
	// RateLimitPerMinute caps instruction submissions per client IP; 0 disables it.
	RateLimitPerMinute int
}

// Load reads configuration values from the environment and populates a Config instance.
// Postgres and Redis are optional in development environments and required elsewhere.
func Load() (Config, error) {
	cfg := Config{
		AppName:            getEnv("APP_NAME", defaultAppName),
		AppEnv:             strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:               getEnv("PORT", defaultPort),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DatabaseMaxConns:   defaultDBMaxConns,
		RedisURL:           os.Getenv("REDIS_URL"),
		ScheduleKey:        getEnv("SCHEDULE_KEY", defaultScheduleKey),
		ShutdownPeriod:     defaultShutdownDelay,
		SideEffectTimeout:  defaultSideEffectTimeout,
		RateLimitPerMinute: defaultRateLimit,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(sideEffectEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", sideEffectEnvVar, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s must be positive", sideEffectEnvVar)
		}
		cfg.SideEffectTimeout = d
	}

	if v := os.Getenv(dbMaxConnsEnvVar); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", dbMaxConnsEnvVar, err)
		}
		cfg.DatabaseMaxConns = int32(n)
	}

	if v := os.Getenv(rateLimitEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", rateLimitEnvVar, v)
		}
		cfg.RateLimitPerMinute = n
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a local/development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

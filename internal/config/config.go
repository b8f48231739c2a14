// Package config loads the settings of the reference backend from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at startup and treated as immutable.
type Config struct {
	// Server
	Port     string
	LogLevel string

	// Database
	DatabasePath string

	// Session
	SessionMaxAge   time.Duration
	SessionSweep    time.Duration
	CookieSecure    bool
	BcryptCost      int
	LoginMaxAttempt int
	LoginLock       time.Duration

	// Rate limit, requests per minute per client IP on /auth
	RateLimitAuth int

	// Upstream autocomplete
	YelpAPIKey   string
	YelpLocation string

	ShutdownTimeout time.Duration
}

// Load reads Config from the environment. Unset variables fall back to
// defaults; malformed numbers and durations are reported.
func Load() (*Config, error) {
	cfg := &Config{}
	var bad []string

	cfg.Port = getEnvString("PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.DatabasePath = getEnvString("DATABASE_PATH", "tastebook.db")
	cfg.YelpAPIKey = os.Getenv("YELP_API_KEY")
	cfg.YelpLocation = getEnvString("YELP_LOCATION", "New York, NY")

	cfg.SessionMaxAge = getEnvDuration("SESSION_MAX_AGE", 24*time.Hour, &bad)
	cfg.SessionSweep = getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour, &bad)
	cfg.LoginLock = getEnvDuration("LOGIN_LOCK_DURATION", 15*time.Minute, &bad)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &bad)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", 12, &bad)
	cfg.LoginMaxAttempt = getEnvInt("LOGIN_MAX_ATTEMPTS", 5, &bad)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 10, &bad)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", false, &bad)

	if len(bad) > 0 {
		return nil, fmt.Errorf("invalid environment variables: %v", bad)
	}
	if cfg.SessionMaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", cfg.SessionMaxAge)
	}
	if cfg.RateLimitAuth <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_AUTH must be positive, got %d", cfg.RateLimitAuth)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int, bad *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*bad = append(*bad, key)
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration, bad *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*bad = append(*bad, key)
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool, bad *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*bad = append(*bad, key)
		return defaultVal
	}
	return b
}

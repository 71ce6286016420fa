package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	// RedisAddr enables the shared rate-limit counter store when non-empty.
	// Without it each instance keeps its own in-process counters, which
	// multiplies the effective quota by the instance count.
	RedisAddr string

	RateLimit RateLimitConfig
}

// RateLimitConfig holds the fixed-window budgets per endpoint class.
type RateLimitConfig struct {
	APIMax        int
	APIWindow     time.Duration
	AuthMax       int
	AuthWindow    time.Duration
	InvoiceMax    int
	InvoiceWindow time.Duration
	SweepInterval time.Duration
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:invoice-umkm.db?_busy_timeout=5000")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RateLimit = RateLimitConfig{
		APIMax:        parseInt("RATE_API_MAX", 30),
		APIWindow:     parseDuration("RATE_API_WINDOW", time.Minute),
		AuthMax:       parseInt("RATE_AUTH_MAX", 5),
		AuthWindow:    parseDuration("RATE_AUTH_WINDOW", 15*time.Minute),
		InvoiceMax:    parseInt("RATE_INVOICE_MAX", 10),
		InvoiceWindow: parseDuration("RATE_INVOICE_WINDOW", time.Minute),
		SweepInterval: parseDuration("RATE_SWEEP_INTERVAL", 5*time.Minute),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logrus.WithField("key", key).Warnf("invalid integer %q, using default %d", v, def)
			return def
		}
		return n
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logrus.WithField("key", key).Warnf("invalid duration %q, using default %s", v, def)
			return def
		}
		return d
	}
	return def
}

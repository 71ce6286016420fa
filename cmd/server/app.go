package main

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/invoice-umkm/internal/config"
	"github.com/diewo77/invoice-umkm/internal/middleware"
	"github.com/diewo77/invoice-umkm/internal/ratelimit"
	"github.com/diewo77/invoice-umkm/internal/server"
)

// NewApp assembles the full handler chain: logging → metrics → rate limit →
// routes. Also used directly by the end-to-end tests.
func NewApp(db *gorm.DB, cfg config.Config) http.Handler {
	rl := middleware.NewRateLimit(rateLimitStore(cfg), cfg.RateLimit)
	var h http.Handler = server.New(db)
	h = rl.Handler(h)
	h = middleware.Metrics(h)
	h = middleware.Logging(h)
	return h
}

// rateLimitStore picks the shared Redis counter store when REDIS_ADDR is
// set. The in-process fallback is fine for a single instance; its quotas are
// per process, so multi-instance deployments must configure Redis.
func rateLimitStore(cfg config.Config) ratelimit.Store {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryStore(cfg.RateLimit.SweepInterval)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logrus.WithField("addr", cfg.RedisAddr).Info("rate limiting via shared redis counters")
	return ratelimit.NewRedisStore(client, "ratelimit")
}

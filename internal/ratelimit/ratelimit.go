// Package ratelimit implements fixed-window request counting keyed by
// (identity, endpoint class). Counters live behind the Store interface so the
// in-process map can be swapped for a shared Redis counter without touching
// the middleware; only the Redis store is correct across multiple server
// instances.
package ratelimit

import (
	"context"
	"time"
)

// Rule is one endpoint class budget: at most Max requests per Window.
type Rule struct {
	Max    int
	Window time.Duration
}

// Decision is the outcome of one rate-limit check. Limit, Remaining, and
// ResetAt are exposed as response headers whether or not the request was
// allowed.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the wait hint for a denied request, rounded up to whole
// seconds and never below one.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return time.Second
	}
	return wait.Round(time.Second) + time.Second
}

// Store counts hits per key within fixed windows.
type Store interface {
	// Hit records one request against key and returns the running count in
	// the current window plus the window's reset time. A returned count of 1
	// means a fresh window just opened.
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// Limiter applies a Rule to a Store.
type Limiter struct {
	store Store
}

func New(store Store) *Limiter { return &Limiter{store: store} }

// Check records the request and decides whether it fits the rule. Counting
// past the limit is harmless: the window resets regardless, and remaining is
// clamped at zero.
func (l *Limiter) Check(ctx context.Context, key string, rule Rule) (Decision, error) {
	count, resetAt, err := l.store.Hit(ctx, key, rule.Window)
	if err != nil {
		return Decision{}, err
	}
	remaining := rule.Max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= rule.Max,
		Limit:     rule.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

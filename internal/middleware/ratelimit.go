package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/invoice-umkm/internal/config"
	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/ratelimit"
)

// Endpoint classes; each has its own fixed-window budget.
const (
	classAPI     = "api"
	classAuth    = "auth"
	classInvoice = "invoice"
)

// RateLimit bounds request rates per identity and endpoint class. Rules come
// from config; the store decides whether counters are process-local or
// shared (Redis).
type RateLimit struct {
	limiter *ratelimit.Limiter
	rules   map[string]ratelimit.Rule
}

func NewRateLimit(store ratelimit.Store, cfg config.RateLimitConfig) *RateLimit {
	return &RateLimit{
		limiter: ratelimit.New(store),
		rules: map[string]ratelimit.Rule{
			classAPI:     {Max: cfg.APIMax, Window: cfg.APIWindow},
			classAuth:    {Max: cfg.AuthMax, Window: cfg.AuthWindow},
			classInvoice: {Max: cfg.InvoiceMax, Window: cfg.InvoiceWindow},
		},
	}
}

// classify picks the endpoint class. Health and metrics endpoints are not
// API traffic and are never limited.
func classify(r *http.Request) (string, bool) {
	path := r.URL.Path
	switch path {
	case "/health", "/healthz", "/metrics":
		return "", false
	}
	if strings.HasPrefix(path, "/auth") || path == "/upgrade" {
		return classAuth, true
	}
	if r.Method == http.MethodPost && path == "/invoices" {
		return classInvoice, true
	}
	return classAPI, true
}

// identity prefers the caller-supplied user id and falls back to a coarse
// network origin.
func identity(r *http.Request) string {
	if uid := r.Header.Get("X-User-ID"); uid != "" {
		return "user:" + uid
	}
	if uid := r.URL.Query().Get("userId"); uid != "" {
		return "user:" + uid
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler enforces the budget and exposes quota metadata on every decision.
// Store failures fail open: an unreachable counter store must not take the
// API down with it.
func (m *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class, limited := classify(r)
		if !limited {
			next.ServeHTTP(w, r)
			return
		}
		rule := m.rules[class]
		key := identity(r) + ":" + class
		d, err := m.limiter.Check(r.Context(), key, rule)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Warn("rate limit store unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retry := d.RetryAfter(time.Now())
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			rateLimitedTotal.WithLabelValues(class).Inc()
			httpx.Fail(w, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded, try again in %d seconds", int(retry.Seconds())))
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/invoice-umkm/internal/config"
	"github.com/diewo77/invoice-umkm/internal/ratelimit"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		APIMax:        3,
		APIWindow:     time.Minute,
		AuthMax:       2,
		AuthWindow:    time.Minute,
		InvoiceMax:    2,
		InvoiceWindow: time.Minute,
		SweepInterval: time.Minute,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitHeadersAndDenial(t *testing.T) {
	rl := NewRateLimit(ratelimit.NewMemoryStore(time.Minute), testConfig())
	h := rl.Handler(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/usage?userId=u1", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "3" {
			t.Fatalf("missing limit header: %v", w.Header())
		}
		if w.Header().Get("X-RateLimit-Remaining") == "" || w.Header().Get("X-RateLimit-Reset") == "" {
			t.Fatalf("missing quota headers: %v", w.Header())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/usage?userId=u1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("denial must carry Retry-After")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("denial must report zero remaining")
	}
}

func TestRateLimitClassesAreIndependent(t *testing.T) {
	rl := NewRateLimit(ratelimit.NewMemoryStore(time.Minute), testConfig())
	h := rl.Handler(okHandler())

	// exhaust the invoice-creation class
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoices?userId=u1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("invoice %d: %d", i, w.Code)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoices?userId=u1", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("invoice class should be exhausted, got %d", w.Code)
	}

	// general API traffic for the same identity still flows
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices?userId=u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("api class should be independent, got %d", w.Code)
	}
}

func TestRateLimitIdentities(t *testing.T) {
	rl := NewRateLimit(ratelimit.NewMemoryStore(time.Minute), testConfig())
	h := rl.Handler(okHandler())

	// exhaust u1 via header identity
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/usage", nil)
		req.Header.Set("X-User-ID", "u1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("u1 request %d: %d", i+1, w.Code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("u1 should be limited, got %d", w.Code)
	}

	// another identity is unaffected
	req = httptest.NewRequest(http.MethodGet, "/usage", nil)
	req.Header.Set("X-User-ID", "u2")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("u2 should be allowed, got %d", w.Code)
	}
}

func TestRateLimitSkipsHealthAndMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.APIMax = 1
	rl := NewRateLimit(ratelimit.NewMemoryStore(time.Minute), cfg)
	h := rl.Handler(okHandler())

	for i := 0; i < 5; i++ {
		for _, path := range []string{"/health", "/healthz", "/metrics"} {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("%s should never be limited, got %d", path, w.Code)
			}
			if w.Header().Get("X-RateLimit-Limit") != "" {
				t.Fatalf("%s should not carry quota headers", path)
			}
		}
	}
}

// failingStore simulates an unreachable counter backend (e.g. Redis down).
type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("store down")
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	rl := NewRateLimit(failingStore{}, testConfig())
	h := rl.Handler(okHandler())

	// well past the configured api budget of 3
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/usage?userId=u1", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: store failure must not block traffic, got %d", i+1, w.Code)
		}
		// no quota headers: the store never produced a decision
		if w.Header().Get("X-RateLimit-Limit") != "" || w.Header().Get("X-RateLimit-Remaining") != "" {
			t.Fatalf("request %d: stale quota headers on fail-open: %v", i+1, w.Header())
		}
	}
}

func TestRateLimitUpgradeUsesAuthClass(t *testing.T) {
	rl := NewRateLimit(ratelimit.NewMemoryStore(time.Minute), testConfig())
	h := rl.Handler(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upgrade?userId=u1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("upgrade %d: %d", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("upgrade should use the auth budget, got %v", w.Header())
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upgrade?userId=u1", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test"), mr
}

func TestRedisStoreCountsWithinWindow(t *testing.T) {
	store, _ := setupRedisStore(t)
	l := New(store)
	rule := Rule{Max: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < rule.Max; i++ {
		d, err := l.Check(ctx, "u1:invoice", rule)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	d, err := l.Check(ctx, "u1:invoice", rule)
	if err != nil {
		t.Fatalf("check over limit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected denial, got %+v", d)
	}
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	if n, _, err := store.Hit(ctx, "k", time.Minute); err != nil || n != 1 {
		t.Fatalf("first hit: n=%d err=%v", n, err)
	}
	if n, _, err := store.Hit(ctx, "k", time.Minute); err != nil || n != 2 {
		t.Fatalf("second hit: n=%d err=%v", n, err)
	}

	mr.FastForward(time.Minute + time.Second)

	if n, _, err := store.Hit(ctx, "k", time.Minute); err != nil || n != 1 {
		t.Fatalf("hit after expiry should restart the window: n=%d err=%v", n, err)
	}
}

func TestRedisStoreReattachesLostTTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	// simulate a counter whose expiry was lost
	if err := mr.Set("test:k", "3"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	if _, resetAt, err := store.Hit(ctx, "k", time.Minute); err != nil {
		t.Fatalf("second hit: %v", err)
	} else if time.Until(resetAt) <= 0 {
		t.Fatalf("expected a future reset time, got %v", resetAt)
	}
	if mr.TTL("test:k") <= 0 {
		t.Fatalf("TTL should have been reattached")
	}
}

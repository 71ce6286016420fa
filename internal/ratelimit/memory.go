package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps window counters in process memory. Entries expire with
// their window and the cache janitor sweeps leftovers on its own interval,
// independent of any window length. Counters are per process: with N server
// instances each identity effectively gets N times the quota, which is why
// production multi-instance deployments must use RedisStore instead.
type MemoryStore struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemoryStore builds an in-process store swept every sweepInterval.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, sweepInterval)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// GetWithExpiration treats stale-but-unswept entries as absent, so an
	// expired window always restarts at 1.
	if _, resetAt, ok := s.c.GetWithExpiration(key); ok {
		count, err := s.c.IncrementInt(key, 1)
		if err == nil {
			return count, resetAt, nil
		}
		// entry vanished between the read and the increment; fall through
	}
	s.c.Set(key, 1, window)
	return 1, time.Now().Add(window), nil
}

// Len reports the live entry count (expired entries may linger until the
// next sweep).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.ItemCount()
}

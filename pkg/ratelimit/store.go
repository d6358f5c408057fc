package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// WindowStore is the counter backend. Keys are bucketed by window index
// internally, so the caller only supplies the stable (tenant, session) key.
type WindowStore interface {
	// Incr adds cost to the current window's counter and returns the new
	// count plus the time remaining until the window resets.
	Incr(ctx context.Context, key string, cost int, window time.Duration) (int, time.Duration, error)

	// Decr rolls back a previous Incr within the same window.
	Decr(ctx context.Context, key string, cost int, window time.Duration) error
}

// bucket computes the fixed-window key suffix and the window deadline.
func bucket(key string, window time.Duration, now time.Time) (string, time.Time) {
	idx := now.Unix() / int64(window.Seconds())
	deadline := time.Unix((idx+1)*int64(window.Seconds()), 0)
	return fmt.Sprintf("%s:%d", key, idx), deadline
}

// MemoryStore is the in-process WindowStore. Counters live in a TTL cache and
// are evicted two windows after their last touch, which bounds memory without
// a dedicated sweeper of our own.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(2*time.Minute, 5*time.Minute),
		now:   time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, cost int, window time.Duration) (int, time.Duration, error) {
	bkey, deadline := bucket(key, window, s.now())

	// Add is atomic under the cache lock: exactly one caller creates the
	// window, everyone else lands in Increment.
	if err := s.cache.Add(bkey, cost, 2*window); err == nil {
		return cost, deadline.Sub(s.now()), nil
	}

	count, err := s.cache.IncrementInt(bkey, cost)
	if err != nil {
		// The window expired between Add and Increment. Start fresh.
		s.cache.Set(bkey, cost, 2*window)
		return cost, deadline.Sub(s.now()), nil
	}
	return count, deadline.Sub(s.now()), nil
}

func (s *MemoryStore) Decr(_ context.Context, key string, cost int, window time.Duration) error {
	bkey, _ := bucket(key, window, s.now())
	_, err := s.cache.DecrementInt(bkey, cost)
	return err
}

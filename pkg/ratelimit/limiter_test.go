package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitWithinQuota(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), nil)
	q := Quota{Limit: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		d := l.Admit(context.Background(), "t1", "s1", q, 1)
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 5-(i+1), d.Remaining)
	}
}

func TestAdmitRejectsOverQuota(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), nil)
	q := Quota{Limit: 2, Window: time.Minute}

	require.True(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)
	require.True(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)

	d := l.Admit(context.Background(), "t1", "s1", q, 1)
	assert.False(t, d.Allowed)
	assert.Positive(t, d.RetryAfter)

	// The rejected increment must roll back, so the same rejection repeats
	// instead of the counter drifting further over quota.
	d = l.Admit(context.Background(), "t1", "s1", q, 1)
	assert.False(t, d.Allowed)
}

func TestAdmitIndependentKeys(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), nil)
	q := Quota{Limit: 1, Window: time.Minute}

	require.True(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)
	assert.False(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)

	// Different session and different tenant both get their own window.
	assert.True(t, l.Admit(context.Background(), "t1", "s2", q, 1).Allowed)
	assert.True(t, l.Admit(context.Background(), "t2", "s1", q, 1).Allowed)
}

func TestAdmitWindowReset(t *testing.T) {
	store := NewMemoryStore()
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }

	l := NewLimiter(store, nil)
	q := Quota{Limit: 1, Window: time.Minute}

	require.True(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)
	require.False(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed)

	now = now.Add(time.Minute)
	assert.True(t, l.Admit(context.Background(), "t1", "s1", q, 1).Allowed,
		"a new window must start after the old one expires")
}

func TestAdmitInvalidQuotaFallsBack(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), nil)

	// Zero quota means broken tenant config; the hardcoded default applies
	// instead of rejecting everything.
	d := l.Admit(context.Background(), "t1", "s1", Quota{}, 1)
	assert.True(t, d.Allowed)
	assert.Equal(t, DefaultQuota.Limit-1, d.Remaining)
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, int, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("store down")
}

func (failingStore) Decr(context.Context, string, int, time.Duration) error {
	return errors.New("store down")
}

func TestAdmitFailsOpenOnStoreError(t *testing.T) {
	l := NewLimiter(failingStore{}, nil)

	d := l.Admit(context.Background(), "t1", "s1", Quota{Limit: 1, Window: time.Minute}, 1)
	assert.True(t, d.Allowed)
}

func TestAdmitConcurrentSameKey(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), nil)
	q := Quota{Limit: 50, Window: time.Minute}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit(context.Background(), "t1", "s1", q, 1).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed, "exactly quota admissions under contention")
}

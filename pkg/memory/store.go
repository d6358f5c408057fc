package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps session records in a TTL cache, mirroring what the Redis
// store does with key expiry. Records are deep-copied on both Load and Store
// so concurrent readers never share slices with a writer.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(DefaultSessionTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Load(_ context.Context, key string) (*SessionRecord, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, nil
	}
	return copyRecord(x.(*SessionRecord)), nil
}

func (s *MemoryStore) Store(_ context.Context, key string, rec *SessionRecord, ttl time.Duration) error {
	s.cache.Set(key, copyRecord(rec), ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func copyRecord(rec *SessionRecord) *SessionRecord {
	dup := *rec
	dup.Turns = append([]Turn(nil), rec.Turns...)
	return &dup
}

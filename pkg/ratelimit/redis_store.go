package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps rate windows in Redis so admission survives restarts and
// is shared across gateway instances. Expiry is store-level: each window key
// carries a TTL of two windows, and Redis reclaims idle keys on its own.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Incr(ctx context.Context, key string, cost int, window time.Duration) (int, time.Duration, error) {
	bkey, deadline := bucket(key, window, s.now())

	pipe := s.rdb.TxPipeline()
	incr := pipe.IncrBy(ctx, bkey, int64(cost))
	pipe.Expire(ctx, bkey, 2*window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	return int(incr.Val()), deadline.Sub(s.now()), nil
}

func (s *RedisStore) Decr(ctx context.Context, key string, cost int, window time.Duration) error {
	bkey, _ := bucket(key, window, s.now())
	return s.rdb.DecrBy(ctx, bkey, int64(cost)).Err()
}

package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "tasksubmit:idempotency:"
	DefaultKeyTTL    = 24 * time.Hour
)

// IdempotencyStore remembers idempotency keys for a limited time so a
// retried request is not published twice.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &IdempotencyStore{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

func (s *IdempotencyStore) key(k string) string { return s.prefix + k }

// Claim records key and reports whether this call was the first to do so.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, s.key(key), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
}

// Release forgets key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisAttemptPrefix = "login-attempts:"

// RedisAttemptStore shares login attempt counts across instances. Unlike the
// in-memory store it uses a fixed window anchored at the first failure, which
// is close enough to the sliding window for lockout purposes; the key expiry
// doubles as eviction.
type RedisAttemptStore struct {
	client *redis.Client
	window time.Duration
}

// NewRedisAttemptStore wraps an existing client.
func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, window: attemptWindow}
}

// Touch implements AttemptStore.
func (s *RedisAttemptStore) Touch(ctx context.Context, key string) (bool, error) {
	full := redisAttemptPrefix + key
	count, err := s.client.Incr(ctx, full).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, full, s.window).Err(); err != nil {
			return false, err
		}
	}
	return count > maxAttempts, nil
}

// Clear implements AttemptStore.
func (s *RedisAttemptStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisAttemptPrefix+key).Err()
}

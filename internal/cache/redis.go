// Package cache provides the Redis-backed processing lock that keeps
// duplicate queue deliveries from running the pipeline concurrently for the
// same document.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentsift/screening/internal/config"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// ProcessLock is an advisory lock over Redis SET NX. The TTL bounds how
// long a crashed worker can hold a document; a later retry re-acquires
// after expiry.
type ProcessLock struct {
	client *redis.Client
}

func NewProcessLock(client *redis.Client) *ProcessLock {
	return &ProcessLock{client: client}
}

func (l *ProcessLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return acquired, nil
}

func (l *ProcessLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/config"
)

// retryInterval is the pause between attempts on a busy key.
const retryInterval = 100 * time.Millisecond

// RedisLocker is a Locker shared by every instance using the same Redis.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker wraps an existing Redis client.
func NewRedisLocker(rdb redislock.RedisClient, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		wait:   wait,
	}
}

// Obtain implements Locker.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Release, error) {
	attempts := int(l.wait / retryInterval)
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), attempts),
	}

	lk, err := l.client.Obtain(ctx, key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, lockedError(key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// TTL expired before release; nothing left to free.
			return nil
		}
		return err
	}, nil
}

// New builds the Locker selected by cfg. The returned close function
// releases the Redis connection, if any.
func New(ctx context.Context, cfg config.RedisConfig) (Locker, func() error, error) {
	if !cfg.Enabled {
		return NewLocalLocker(cfg.LockWait), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Address, err)
	}
	return NewRedisLocker(rdb, cfg.LockTTL, cfg.LockWait), rdb.Close, nil
}

func lockedError(key string) error {
	return fmt.Errorf("%s: %w", key, planning.ErrLocked)
}

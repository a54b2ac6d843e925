package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter throttles failed login attempts per username, backed by a
// Redis counter with a TTL window.
// Key format: login_attempts:<username>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive maxAttempts or window fall back to the defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int64, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether the username is still under the failure budget for
// the current window.
func (l *LoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("limiter check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure counts one failed attempt. The window starts at the first
// failure and is not extended by later ones. INCR and EXPIRE travel in one
// transactional pipeline so the counter can never be left without a TTL.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("limiter record failure: %w", err)
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login_attempts:" + username
}

// Package ratelimit counts attempts per key in fixed windows stored in Redis.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the subset of the Redis client the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

type Limiter struct {
	rdb    Counter
	prefix string
	limit  int64
	window time.Duration
}

// New returns a limiter allowing limit attempts per window. A nil rdb gives
// a limiter that allows everything.
func New(rdb Counter, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

// Decision is the outcome of one attempt.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Allow records an attempt for key. Redis errors allow the attempt.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return Decision{Allowed: true}
	}

	k := l.prefix + ":" + key

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		slog.Warn("rate limit check failed, allowing request", "key", k, "error", err)
		return Decision{Allowed: true}
	}

	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			slog.Warn("failed to set rate limit window", "key", k, "error", err)
		}
	}

	if n <= l.limit {
		return Decision{Allowed: true, Remaining: l.limit - n}
	}

	retry, err := l.rdb.TTL(ctx, k).Result()
	if err != nil || retry < 0 {
		retry = l.window
	}

	return Decision{Allowed: false, RetryAfter: retry}
}

// NewClient connects to Redis at addr. It returns nil when addr is empty.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

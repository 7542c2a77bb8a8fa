package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/findules/internal/ratelimit"
)

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}

	f.counts[key]++

	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	f.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(f.expires[key], nil)
}

func TestLimiter_Allow(t *testing.T) {
	fc := newFakeCounter()
	l := ratelimit.New(fc, "login", 3, time.Minute)
	ctx := context.Background()

	for i := range 3 {
		dec := l.Allow(ctx, "10.0.0.1")
		assert.True(t, dec.Allowed, "attempt %d", i+1)
		assert.Equal(t, int64(2-i), dec.Remaining)
	}

	dec := l.Allow(ctx, "10.0.0.1")
	assert.False(t, dec.Allowed)
	assert.Equal(t, time.Minute, dec.RetryAfter)

	assert.True(t, l.Allow(ctx, "10.0.0.2").Allowed, "keys are independent")
	assert.Equal(t, time.Minute, fc.expires["login:10.0.0.1"])
}

func TestLimiter_FailsOpen(t *testing.T) {
	fc := newFakeCounter()
	fc.err = errors.New("connection refused")

	l := ratelimit.New(fc, "login", 1, time.Minute)

	for range 5 {
		assert.True(t, l.Allow(context.Background(), "k").Allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	var nilLimiter *ratelimit.Limiter
	assert.True(t, nilLimiter.Allow(context.Background(), "k").Allowed)
	assert.True(t, ratelimit.New(nil, "login", 1, time.Minute).Allow(context.Background(), "k").Allowed)
}

package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across replicas. It only
// enforces the sustained limit; burst smoothing stays a local concern.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, policy RateLimitPolicy) (Decision, error) {
	policy = normalizePolicy(policy)
	now := time.Now()
	windowStart := now.Truncate(policy.SustainedWindow)
	resetAt := windowStart.Add(policy.SustainedWindow)
	redisKey := fmt.Sprintf("%s:{%s}:%d", l.prefix, key, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, policy.SustainedWindow+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := incr.Val()
	remaining := policy.SustainedLimit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if count > int64(policy.SustainedLimit) {
		return Decision{
			Allowed:    false,
			RetryAfter: time.Until(resetAt),
			Remaining:  0,
			ResetAt:    resetAt,
		}, nil
	}
	return Decision{Allowed: true, Remaining: remaining, ResetAt: resetAt}, nil
}

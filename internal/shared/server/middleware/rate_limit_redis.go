package middleware

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"docreview-backend/internal/shared/telemetry"
)

// RedisRateLimiter is a fixed-window limiter shared across API replicas.
// Each window admits Burst requests and lasts Burst/Rate seconds.
// Redis errors fail open.
type RedisRateLimiter struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRateLimiter(client redis.Cmdable, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "docreview:ratelimit:"
	}
	return &RedisRateLimiter{client: client, prefix: prefix}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	window := rateWindow(rule)
	redisKey := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.ExpireNX(ctx, redisKey, window)
		ttl = p.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		telemetry.Warn("ratelimit.redis.unavailable", map[string]any{
			"key":   key,
			"error": err,
		})
		return true, 0
	}
	if incr.Val() <= int64(rule.Burst) {
		return true, 0
	}
	retryAfter := ttl.Val()
	if retryAfter <= 0 {
		retryAfter = window
	}
	return false, retryAfter
}

func rateWindow(rule RateLimitRule) time.Duration {
	secs := float64(rule.Burst) / rule.Rate
	ms := math.Ceil(secs * 1000.0)
	if ms < 1000 {
		ms = 1000
	}
	return time.Duration(ms) * time.Millisecond
}

package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hirewise-backend/internal/shared/telemetry"
	"hirewise-backend/internal/shared/util"
)

// RedisLimiter enforces a fixed window shared by every API instance. The
// window length is Burst/Rate, so the long-run rate matches the token bucket.
// Redis failures let the request through.
type RedisLimiter struct {
	Client *redis.Client
	Prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{Client: client, Prefix: "hw:ratelimit:", now: now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.Client == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	window := time.Duration(float64(rule.Burst) / rule.Rate * float64(time.Second))
	if window < time.Second {
		window = time.Second
	}
	now := l.now()
	slot := now.UnixNano() / int64(window)
	windowEnd := time.Unix(0, (slot+1)*int64(window))
	redisKey := l.Prefix + util.HashKey(key) + ":" + strconv.FormatInt(slot, 10)

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		telemetry.Error("ratelimit.redis_failed", map[string]any{"error": err, "key": key})
		return true, 0
	}
	if incr.Val() <= int64(rule.Burst) {
		return true, 0
	}
	return false, windowEnd.Sub(now)
}

var _ Limiter = (*RedisLimiter)(nil)

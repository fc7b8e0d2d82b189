package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/casperid/humanid/internal/ratelimit"
)

const lookupRateKeyPrefix = "rl:lookup:"

// LookupRateLimit caps lookups per client IP per minute. With Redis the count
// is shared across instances; without it each instance keeps its own buckets.
// Redis errors fail open.
func LookupRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	local := ratelimit.PerMinute(maxPerMin)

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if cache == nil {
			if !local.Allow(ip, time.Now()) {
				return fiber.NewError(http.StatusTooManyRequests, "too many lookups, try again later")
			}
			return c.Next()
		}

		ctx := c.UserContext()
		key := lookupRateKeyPrefix + ip
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			if err := cache.Expire(ctx, key, time.Minute).Err(); err != nil {
				// A counter without a TTL would block this IP forever.
				cache.Del(ctx, key)
				return c.Next()
			}
		}
		if cnt > int64(maxPerMin) {
			ensureWindow(c, cache, key)
			return fiber.NewError(http.StatusTooManyRequests, "too many lookups, try again later")
		}
		return c.Next()
	}
}

// ensureWindow puts a TTL back on a counter that lost it.
func ensureWindow(c *fiber.Ctx, cache *redis.Client, key string) {
	ttl, err := cache.TTL(c.UserContext(), key).Result()
	if err == nil && ttl < 0 {
		cache.Expire(c.UserContext(), key, time.Minute)
	}
}

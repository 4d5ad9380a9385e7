package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "payinstr:v1:rl:"

// RateLimit caps requests per client IP per minute using a Redis counter.
// A nil cache or a non-positive limit disables it, and Redis errors let the
// request through.
func RateLimit(cache *redis.Client, scope string, maxPerMin int, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil || maxPerMin <= 0 {
			return c.Next()
		}

		key := rateLimitPrefix + scope + ":" + c.IP() + ":" + time.Now().UTC().Format("200601021504")
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			if logger != nil {
				logger.Warn("rate limit lookup failed", slog.String("key", key), slog.Any("error", err))
			}
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fiber.NewError(http.StatusTooManyRequests, "too many payment instructions, try again later")
		}
		return c.Next()
	}
}

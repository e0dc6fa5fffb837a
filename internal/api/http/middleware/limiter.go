package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/scheduleease/config"
)

const (
	defaultRequestsPerWindow = 20
	defaultWindowSeconds     = 30
)

// NewLimiterWithRedis rate limits by client IP with a sliding window shared
// across instances through Redis.
func NewLimiterWithRedis(rdb *redis.Client, cfg config.RateLimitConfig) fiber.Handler {
	limit := cfg.RequestsPerWindow
	if limit <= 0 {
		limit = defaultRequestsPerWindow
	}
	window := cfg.WindowSeconds
	if window <= 0 {
		window = defaultWindowSeconds
	}

	return limiter.New(limiter.Config{
		Storage:           fiberredis.NewFromConnection(rdb),
		Max:               limit,
		Expiration:        time.Duration(window) * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too Many Requests")
		},
	})
}

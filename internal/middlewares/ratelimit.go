package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/khanghh/kontest/internal/common"
	"github.com/khanghh/kontest/params"
)

type RateLimitConfig struct {
	Storage fiber.Storage
	Max     int
	Window  time.Duration
	HashKey string // client addresses are stored hashed with this key
}

// RateLimit limits requests per client IP over a sliding window.
func RateLimit(config RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:                config.Max,
		Expiration:         config.Window,
		Storage:            config.Storage,
		LimiterMiddleware:  limiter.SlidingWindow{},
		SkipFailedRequests: false,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			return params.LimiterKeyPrefix + common.CalculateHash(config.HashKey, ctx.Path(), ctx.IP())
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	})
}

package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-user rate limiter. Anonymous requests fall
// back to the client IP, which keeps login and OTP endpoints throttled.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := CurrentUserID(c)
			if userID == 0 {
				return fmt.Sprintf("%s:%s", identifier, c.IP())
			}
			return fmt.Sprintf("%s:%d", identifier, userID)
		},
	})
}

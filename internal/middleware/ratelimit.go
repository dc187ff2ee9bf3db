package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/response"
)

// Counter increments a key whose count resets after window.
// *cache.RedisStore satisfies it, so every server instance shares the budget.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter allows limit requests per client IP in each window.
type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	log     zerolog.Logger
}

// NewRateLimiter creates a RateLimiter (e.g., 30 login attempts per minute).
func NewRateLimiter(counter Counter, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		log:     log.With().Str("component", "ratelimit").Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// When the counter store fails the request goes through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		n, err := rl.counter.Incr(c.Request.Context(), config.CacheKey.LoginAttemptsKey(ip), rl.window)
		if err != nil {
			rl.log.Warn().Err(err).Str("ip", ip).Msg("Rate limit counter unavailable")
			c.Next()
			return
		}

		if n > int64(rl.limit) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

const (
	defaultMaxAttempts    = 5
	defaultWindowDuration = time.Minute
	rateLimitKeyPrefix    = "natural-surplus:ratelimit:"
)

// fixedWindow increments the counter for a key and starts its window on the first hit.
var fixedWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RateLimiter limits requests per client IP with a fixed window shared
// by every API instance through Redis.
type RateLimiter struct {
	client         redis.UniversalClient
	scope          string
	maxAttempts    int
	windowDuration time.Duration
}

// NewRateLimiter creates a rate limiter with the default limits.
func NewRateLimiter(client redis.UniversalClient, scope string) *RateLimiter {
	return NewRateLimiterWithConfig(client, scope, defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a rate limiter with custom limits.
func NewRateLimiterWithConfig(client redis.UniversalClient, scope string, maxAttempts int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		client:         client,
		scope:          scope,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Requests pass when Redis cannot be reached.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := rl.allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, clientIP string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", rateLimitKeyPrefix, rl.scope, clientIP)
	count, err := fixedWindow.Run(ctx, rl.client, []string{key}, rl.windowDuration.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return count <= rl.maxAttempts, nil
}

package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

// RateLimiter decides whether another hit for key fits the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitRecorder counts rejected requests.
type RateLimitRecorder interface {
	RecordRateLimited(path string)
}

// RateLimit throttles requests per client IP and route. A nil limiter disables it.
// Limiter failures let the request through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration, recorder RateLimitRecorder, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		path := c.FullPath()
		allowed, err := limiter.Allow(c.Request.Context(), path+"|"+c.ClientIP(), limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("path", path), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			if recorder != nil {
				recorder.RecordRateLimited(path)
			}
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

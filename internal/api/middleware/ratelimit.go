package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apierrors "github.com/feral-file/ff-emoji-insights/internal/api/shared/errors"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
)

// RateLimitConfig configures a token bucket shared by every caller of a route
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests allowed per minute
	PerMinute int
	// Burst is the number of requests allowed at once
	Burst int
}

// RateLimit returns a gin middleware rejecting requests above the configured rate with 429
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 6
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.WarnCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.NewTooManyRequestsError("Too many requests", "try again later"))
			return
		}
		c.Next()
	}
}

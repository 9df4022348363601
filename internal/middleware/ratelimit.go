package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"finbook/internal/logger"
)

// RateLimit creates a Gin middleware that rate limits requests per client IP
// using the provided limiter instance.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Get().Errorw("rate limit check failed", "ip", ip, "error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error during rate limit check"},
			})
			return
		}

		if lctx.Reached {
			logger.Get().Warnw("rate limit exceeded", "ip", ip, "limit", lctx.Limit)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "RATE_LIMITED", "message": "Too many requests. Please try again later."},
			})
			return
		}

		c.Next()
	}
}

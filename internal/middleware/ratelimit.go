package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Limiter decides per client address whether a request may proceed.
type Limiter interface {
	Allow(ip string) bool
}

// RateLimit rejects requests over the limit with 429.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			RateLimitedTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

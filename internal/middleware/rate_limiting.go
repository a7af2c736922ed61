package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/config"
)

const rateLimitManagerKey = "rateLimitManager"

// WithRateLimitManager exposes manager to RateLimitMiddleware further down
// the chain.
func WithRateLimitManager(manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(rateLimitManagerKey, manager)
		c.Next()
	}
}

// RateLimitMiddleware creates a middleware that limits request rate per IP
// It requires a RateLimitManager to be set in the context by the application
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		managerVal, exists := c.Get(rateLimitManagerKey)
		if !exists {
			c.Next()
			return
		}

		manager, ok := managerVal.(*RateLimitManager)
		if !ok || manager == nil {
			c.Next()
			return
		}

		limiter := manager.GetVisitor(
			c.ClientIP(),
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			cfg.RateLimitBurst,
		)

		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	switch r.URL.Path {
	case "/health", "/metrics":
		return true
	}

	return false
}

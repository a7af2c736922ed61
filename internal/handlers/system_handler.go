package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/pkg/cache"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Health reports liveness together with the store connection state.
func Health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{
			"status":   "healthy",
			"database": "up",
			"time":     time.Now().Format(time.RFC3339),
		}
		if err := store.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
			body["error"] = err.Error()
		}
		c.JSON(status, body)
	}
}

// ClearCache drops cached representations of one collection, or all of
// them when no collection is given.
func ClearCache(cacheService *cache.Cache, collections []string) gin.HandlerFunc {
	known := make(map[string]bool, len(collections))
	for _, name := range collections {
		known[name] = true
	}

	return func(c *gin.Context) {
		cacheType := c.DefaultQuery("type", "all")
		ctx := c.Request.Context()

		var err error
		switch {
		case cacheType == "all":
			for _, name := range collections {
				if err = cacheService.DeletePattern(ctx, name+":*"); err != nil {
					break
				}
			}
		case known[cacheType]:
			err = cacheService.DeletePattern(ctx, cacheType+":*")
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cache type"})
			return
		}

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "cache cleared successfully",
			"type":    cacheType,
		})
	}
}

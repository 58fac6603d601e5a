package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// Health handles GET /management/health
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "DOWN",
				"components": gin.H{"db": gin.H{"status": "DOWN"}},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "UP",
			"components": gin.H{"db": gin.H{"status": "UP"}},
		})
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/scraper"
)

// Version is reported by the health endpoint and the CLI.
var Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports pool utilisation and degrades status when > 80% of pages are
// active. sc is nil when the server runs without a browser; snapshot
// extraction and reconcile still work, so the status stays healthy.
func Health(sc *scraper.Scraper, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats models.PoolStats
		if sc != nil {
			stats = sc.Stats()
		}

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: stats,
			Browser:   sc != nil,
			Version:   Version,
		})
	}
}

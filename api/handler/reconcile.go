package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puckline/matchup/cache"
	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/pipeline"
)

// Reconcile returns a handler for POST /api/v1/reconcile.
//
// Pipeline:
//
//	Bind → Cache check → Canonicalize + Join → Export (opt-in) → Cache set
//
// cc may be nil, which disables caching. A cache hit skips the join but not
// the export. A failed export still returns the merged records, with status
// 502 and an EXPORT_FAILED error.
func Reconcile(rc *pipeline.Reconciler, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Bind ───────────────────────────────────────────────────
		var req models.ReconcileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		// ── 2. Cache check ────────────────────────────────────────────
		var key string
		if cc != nil && req.MaxAge > 0 {
			key = cache.Key(req.Defense, req.Props)
			if cached, ok := cc.Get(key, req.MaxAge); ok {
				resp := *cached
				resp.CacheStatus = "hit"
				if req.Export {
					exportRecords(c, rc, &resp, start)
					return
				}
				resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Canonicalize + Join ────────────────────────────────────
		joinStart := time.Now()
		merged, sum := rc.Reconcile(c.Request.Context(), req.Defense, req.Props)
		resp := models.ReconcileResponse{
			Success: true,
			Records: merged,
			Summary: sum,
		}
		resp.Timing.JoinMs = time.Since(joinStart).Milliseconds()

		// ── 4. Export ─────────────────────────────────────────────────
		if req.Export {
			if err := rc.Export(c.Request.Context(), merged); err != nil {
				respondExportError(c, &resp, err, start)
				return
			}
		}
		resp.Timing.TotalMs = time.Since(start).Milliseconds()

		// ── 5. Cache set ──────────────────────────────────────────────
		if key != "" {
			stored := resp
			cc.Set(key, &stored)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// exportRecords exports a cached response's records and replies.
func exportRecords(c *gin.Context, rc *pipeline.Reconciler, resp *models.ReconcileResponse, start time.Time) {
	resp.Timing = models.TimingInfo{}
	if err := rc.Export(c.Request.Context(), resp.Records); err != nil {
		respondExportError(c, resp, err, start)
		return
	}
	resp.Timing.TotalMs = time.Since(start).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

func respondExportError(c *gin.Context, resp *models.ReconcileResponse, err error, start time.Time) {
	me := asMatchupError(err)
	resp.Success = false
	resp.Error = me.ToDetail()
	resp.Timing.TotalMs = time.Since(start).Milliseconds()
	c.JSON(statusFor(me.Code), resp)
}

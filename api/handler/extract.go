package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/engine"
	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/scraper"
)

// Snapshotter fetches static HTML. *engine.Dispatcher implements it.
type Snapshotter interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Extract returns a handler for POST /api/v1/extract.
//
// Three sources feed the same engine:
//
//	html                 – a saved snapshot, unfiltered pass only
//	url + snapshot:true  – static HTML fetched through snap
//	url                  – a live browser tab, position filters clicked
//
// sc and snap may be nil; requests that need them get 503 UNAVAILABLE.
func Extract(sc *scraper.Scraper, snap Snapshotter, eng *extract.Engine, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Bind + validate ────────────────────────────────────────
		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		req.Defaults()
		if (req.HTML == "") == (req.URL == "") {
			badRequest(c, "exactly one of html or url is required")
			return
		}

		timeout := time.Duration(req.Timeout) * time.Second
		if cfg.MaxTimeout > 0 && timeout > cfg.MaxTimeout {
			timeout = cfg.MaxTimeout
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		// ── 2. Open the page ──────────────────────────────────────────
		var page extract.Page
		navStart := time.Now()
		switch {
		case req.HTML != "":
			page = extract.NewStaticPage(req.HTML)

		case req.Snapshot:
			if snap == nil {
				respondExtractError(c, models.NewMatchupError(models.ErrCodeUnavailable, "snapshot fetching is not configured", nil), start)
				return
			}
			res, err := snap.Dispatch(ctx, &engine.FetchRequest{URL: req.URL, Timeout: timeout, Stealth: req.Stealth})
			if err != nil {
				respondExtractError(c, err, start)
				return
			}
			page = extract.NewStaticPage(res.HTML).Scope(req.Section)

		default:
			if sc == nil {
				respondExtractError(c, models.NewMatchupError(models.ErrCodeUnavailable, "server is running without a browser", nil), start)
				return
			}
			rp, err := sc.OpenSection(ctx, req.URL, req.Section, req.Stealth)
			if err != nil {
				respondExtractError(c, err, start)
				return
			}
			defer rp.Close()
			page = rp
		}
		navMs := time.Since(navStart).Milliseconds()

		// ── 3. Extract ────────────────────────────────────────────────
		extractStart := time.Now()
		records := eng.Extract(page, req.Team, req.Opponent)
		if records == nil {
			records = []models.DefenseRecord{}
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Success: true,
			Records: records,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(start).Milliseconds(),
				NavigationMs: navMs,
				ExtractionMs: time.Since(extractStart).Milliseconds(),
			},
		})
	}
}

func respondExtractError(c *gin.Context, err error, start time.Time) {
	me := asMatchupError(err)
	c.JSON(statusFor(me.Code), models.ExtractResponse{
		Success: false,
		Records: []models.DefenseRecord{},
		Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
		Error:   me.ToDetail(),
	})
}

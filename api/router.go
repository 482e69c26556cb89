package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puckline/matchup/api/handler"
	"github.com/puckline/matchup/api/middleware"
	"github.com/puckline/matchup/cache"
	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/pipeline"
	"github.com/puckline/matchup/scraper"
)

// Deps are the services the routes are built on. Scraper and Snapshots
// are nil when the server runs without a browser or a fetch dispatcher;
// Cache is nil when caching is disabled.
type Deps struct {
	Scraper    *scraper.Scraper
	Snapshots  handler.Snapshotter
	Engine     *extract.Engine
	Reconciler *pipeline.Reconciler
	Cache      *cache.Cache
	StartTime  time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(deps.Scraper, deps.StartTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/extract", handler.Extract(deps.Scraper, deps.Snapshots, deps.Engine, cfg.Scraper))
	protected.POST("/reconcile", handler.Reconcile(deps.Reconciler, deps.Cache))

	return r
}

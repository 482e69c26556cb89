package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/puckline/matchup/api"
	"github.com/puckline/matchup/cache"
	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/pipeline"
	"github.com/puckline/matchup/scraper"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	// ── 1. Initialise structured logging ────────────────────────────
	logger := initLogger(cfg.Log, os.Stdout)
	logger.Info("matchup starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browser", cfg.Browser.Enabled,
		"maxPages", cfg.Browser.MaxPages,
	)

	// ── 2. Initialise scraper (launches browser) ────────────────────
	var sc *scraper.Scraper
	if cfg.Browser.Enabled {
		var err error
		sc, err = scraper.NewScraper(cfg.Browser, cfg.Scraper)
		if err != nil {
			return fmt.Errorf("initialise scraper: %w", err)
		}
		defer sc.Close()
	}

	// ── 3. Snapshot dispatcher ──────────────────────────────────────
	dispatcher := newDispatcher(cfg, sc)
	if sc != nil {
		sc.SetDispatcher(dispatcher)
	}

	// ── 4. Reconciler + exporters ───────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporters, closeExporters, err := targetsFromConfig(cfg.Export).open(ctx)
	defer closeExporters()
	if err != nil {
		return err
	}
	rc := pipeline.New(pipeline.WithLogger(logger), pipeline.WithExporters(exporters...))

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(cfg, api.Deps{
		Scraper:    sc,
		Snapshots:  dispatcher,
		Engine:     newExtractEngine(cfg, logger),
		Reconciler: rc,
		Cache:      cache.New(cfg.Cache.MaxEntries),
		StartTime:  time.Now(),
	})

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give in-flight requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close runs via defer and kills Chrome.
	slog.Info("matchup stopped")
	return nil
}

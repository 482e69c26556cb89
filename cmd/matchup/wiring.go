package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/engine"
	"github.com/puckline/matchup/export"
	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/scraper"
)

// newDispatcher builds the snapshot engine race. Without a browser only the
// HTTP engine runs, so JavaScript shells fail instead of escalating.
func newDispatcher(cfg *config.Config, sc *scraper.Scraper) *engine.Dispatcher {
	engines := []engine.Engine{engine.NewHTTPEngine(cfg.Engine.HTTPTimeout)}
	if sc != nil && cfg.Engine.EnableMultiEngine {
		engines = append(engines,
			engine.NewRodEngine(sc.FetchRendered, false),
			engine.NewRodEngine(sc.FetchRendered, true),
		)
	}
	memory := engine.NewDomainMemory(cfg.Engine.DomainMemoryTTL)
	d := engine.NewDispatcher(engines, cfg.Engine.EscalationDelays, memory)
	slog.Info("snapshot dispatcher ready", "engines", d.Engines(), "delays", cfg.Engine.EscalationDelays)
	return d
}

func newExtractEngine(cfg *config.Config, logger *slog.Logger) *extract.Engine {
	opts := extract.DefaultOptions()
	opts.Settle = cfg.Extract.Settle
	opts.Logger = logger
	return extract.NewEngine(opts)
}

// exportTargets are the exporter destinations a command was asked for.
type exportTargets struct {
	csvPath       string
	webhookURL    string
	webhookSecret string
	webhookAsync  bool
	databaseURL   string
	table         io.Writer
}

func targetsFromConfig(cfg config.ExportConfig) exportTargets {
	return exportTargets{
		csvPath:       cfg.CSVPath,
		webhookURL:    cfg.WebhookURL,
		webhookSecret: cfg.WebhookSecret,
		webhookAsync:  cfg.WebhookAsync,
		databaseURL:   cfg.DatabaseURL,
	}
}

// open builds the exporters. The returned cleanup closes files and pools
// and must be called even when err is non-nil.
func (t exportTargets) open(ctx context.Context) ([]export.Exporter, func(), error) {
	var (
		exporters []export.Exporter
		closers   []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if t.table != nil {
		exporters = append(exporters, export.NewTable(t.table))
	}
	if t.csvPath != "" {
		f, err := os.Create(t.csvPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("create csv %s: %w", t.csvPath, err)
		}
		closers = append(closers, func() { _ = f.Close() })
		exporters = append(exporters, export.NewCSV(f))
	}
	if t.webhookURL != "" {
		wh := export.NewWebhook(t.webhookURL, t.webhookSecret)
		if t.webhookAsync {
			wh.Async()
		}
		exporters = append(exporters, wh)
	}
	if t.databaseURL != "" {
		pg, err := export.NewPostgres(ctx, t.databaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pg.Close)
		exporters = append(exporters, pg)
	}
	return exporters, cleanup, nil
}

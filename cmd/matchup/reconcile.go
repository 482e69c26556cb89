package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/pipeline"
)

type reconcileFlags struct {
	defensePath   string
	propsPath     string
	csvPath       string
	webhookURL    string
	webhookSecret string
	databaseURL   string
	asJSON        bool
	out           string
}

func reconcileCmd(cfg *config.Config) *cobra.Command {
	var f reconcileFlags
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Attach weak-defense ranks to prop lines",
		Long: `Reconcile canonicalizes teams and stats in both inputs, joins every prop
to a defense rank for its opponent, and writes the merged rows.

Both inputs are JSON arrays: --defense holds records from 'matchup extract',
--props holds {player, team, opponent, stat, line, source} objects. Props
with no matching defense record get rank NA.

Flags choose extra destinations; MATCHUP_CSV_PATH, MATCHUP_WEBHOOK_URL and
MATCHUP_DATABASE_URL act as defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), cfg, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.defensePath, "defense", "", "JSON file of defense records")
	cmd.Flags().StringVar(&f.propsPath, "props", "", "JSON file of prop records (required)")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "write merged rows to this CSV file")
	cmd.Flags().StringVar(&f.webhookURL, "webhook", "", "POST merged rows to this spreadsheet web-app URL")
	cmd.Flags().StringVar(&f.webhookSecret, "webhook-secret", "", "HMAC secret for webhook signatures")
	cmd.Flags().StringVar(&f.databaseURL, "db", "", "upsert merged rows into this Postgres database")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print merged rows as JSON instead of a table")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "with --json, write here instead of stdout")
	_ = cmd.MarkFlagRequired("props")
	return cmd
}

func runReconcile(ctx context.Context, cfg *config.Config, f reconcileFlags, stdout io.Writer) error {
	logger := initLogger(cfg.Log, os.Stderr)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Read inputs ──────────────────────────────────────────────
	var defense []models.DefenseRecord
	if f.defensePath != "" {
		if err := readJSON(f.defensePath, &defense); err != nil {
			return err
		}
	}
	var props []models.PropRecord
	if err := readJSON(f.propsPath, &props); err != nil {
		return err
	}

	// ── 2. Exporters ────────────────────────────────────────────────
	targets := targetsFromConfig(cfg.Export)
	override(&targets.csvPath, f.csvPath)
	override(&targets.webhookURL, f.webhookURL)
	override(&targets.webhookSecret, f.webhookSecret)
	override(&targets.databaseURL, f.databaseURL)
	// The process exits right after; background delivery would be lost.
	targets.webhookAsync = false
	if !f.asJSON {
		targets.table = stdout
	}
	exporters, closeExporters, err := targets.open(ctx)
	defer closeExporters()
	if err != nil {
		return err
	}

	// ── 3. Reconcile + export ───────────────────────────────────────
	rc := pipeline.New(pipeline.WithLogger(logger), pipeline.WithExporters(exporters...))
	merged, _ := rc.Reconcile(ctx, defense, props)
	if err := rc.Export(ctx, merged); err != nil {
		return err
	}
	if f.asJSON {
		return writeJSON(f.out, stdout, merged)
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

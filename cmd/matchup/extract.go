package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/engine"
	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/scraper"
)

type extractFlags struct {
	htmlPath string
	url      string
	section  string
	team     string
	opponent string
	snapshot bool
	stealth  bool
	out      string
}

func extractCmd(cfg *config.Config) *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract weak-defense rankings for one team's matchup section",
		Long: `Extract reads a defense-vs-position section and prints the weak-defense
records (ranks 24th to 32nd) as JSON.

--html reads a saved snapshot; no position filters can be clicked, so the
whole section is read once. --url drives a live browser tab and clicks each
position filter. --url with --snapshot fetches static HTML instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), cfg, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.htmlPath, "html", "", "saved HTML snapshot of the section")
	cmd.Flags().StringVar(&f.url, "url", "", "page to open in the browser")
	cmd.Flags().StringVar(&f.section, "section", "", "CSS selector scoping the team's section")
	cmd.Flags().StringVar(&f.team, "team", "", "defending team (required)")
	cmd.Flags().StringVar(&f.opponent, "opponent", "", "team facing the defense (required)")
	cmd.Flags().BoolVar(&f.snapshot, "snapshot", false, "with --url, fetch static HTML instead of a live page")
	cmd.Flags().BoolVar(&f.stealth, "stealth", false, "inject stealth evasions into the browser page")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write JSON here instead of stdout")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("opponent")
	cmd.MarkFlagsMutuallyExclusive("html", "url")
	cmd.MarkFlagsOneRequired("html", "url")
	return cmd
}

func runExtract(ctx context.Context, cfg *config.Config, f extractFlags, stdout io.Writer) error {
	logger := initLogger(cfg.Log, os.Stderr)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Scraper.DefaultTimeout)
	defer cancel()

	var page extract.Page
	switch {
	case f.htmlPath != "":
		raw, err := os.ReadFile(f.htmlPath)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		page = extract.NewStaticPage(string(raw)).Scope(f.section)

	case f.snapshot:
		var sc *scraper.Scraper
		if cfg.Browser.Enabled {
			var err error
			if sc, err = scraper.NewScraper(cfg.Browser, cfg.Scraper); err != nil {
				return err
			}
			defer sc.Close()
		}
		d := newDispatcher(cfg, sc)
		res, err := d.Dispatch(ctx, &engine.FetchRequest{
			URL:     f.url,
			Timeout: cfg.Scraper.DefaultTimeout,
			Stealth: f.stealth,
		})
		if err != nil {
			return err
		}
		logger.Info("snapshot fetched", "engine", res.EngineName, "url", res.FinalURL)
		page = extract.NewStaticPage(res.HTML).Scope(f.section)

	default:
		if !cfg.Browser.Enabled {
			return errors.New("--url needs a browser; set MATCHUP_BROWSER=true or use --snapshot")
		}
		sc, err := scraper.NewScraper(cfg.Browser, cfg.Scraper)
		if err != nil {
			return err
		}
		defer sc.Close()
		rp, err := sc.OpenSection(ctx, f.url, f.section, f.stealth)
		if err != nil {
			return err
		}
		defer rp.Close()
		page = rp
	}

	records := newExtractEngine(cfg, logger).Extract(page, f.team, f.opponent)
	if records == nil {
		records = []models.DefenseRecord{}
	}
	return writeJSON(f.out, stdout, records)
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, stdout io.Writer, v any) error {
	w := stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes the JSON file at path into v.
func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

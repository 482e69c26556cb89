// Command matchup extracts weak-defense rankings from defense-vs-position
// pages and reconciles them against player prop lines.
//
// Usage:
//
//	matchup serve
//	matchup extract --html page.html --team TOR --opponent BOS
//	matchup extract --url https://example.com/matchups --team TOR --opponent BOS
//	matchup reconcile --defense defense.json --props props.json --csv merged.csv
//	matchup version
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/puckline/matchup/api/handler"
	"github.com/puckline/matchup/config"
)

func main() {
	cfg := config.Defaults()

	root := &cobra.Command{
		Use:           "matchup",
		Short:         "Weak-defense matchup extraction and prop reconciliation",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	root.AddCommand(serveCmd(cfg))
	root.AddCommand(extractCmd(cfg))
	root.AddCommand(reconcileCmd(cfg))
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "matchup v%s\n", handler.Version)
		},
	}
}

// initLogger configures slog based on the LogConfig and returns the logger.
func initLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

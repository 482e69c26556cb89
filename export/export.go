// Package export hands merged prop records to their destinations: CSV
// files, a spreadsheet web-app webhook, Postgres and the terminal.
package export

import (
	"context"
	"errors"
	"strconv"

	"github.com/puckline/matchup/models"
)

// Exporter writes one run's merged records somewhere.
type Exporter interface {
	Name() string
	Export(ctx context.Context, records []models.MergedRecord) error
}

// Columns is the row layout shared by the tabular exporters.
var Columns = []string{"player", "team", "opponent", "stat", "line", "defense_rank", "source", "match_tier"}

// row renders m in Columns order.
func row(m models.MergedRecord) []string {
	return []string{
		m.Player,
		m.Team,
		m.Opponent,
		m.Stat,
		strconv.FormatFloat(m.Line, 'f', -1, 64),
		m.DefenseRank,
		m.Source,
		string(m.MatchTier),
	}
}

// failed wraps err from exporter name as an EXPORT_FAILED error.
func failed(name string, err error) error {
	return models.NewMatchupError(models.ErrCodeExportFailed, name+" export failed", err)
}

// All runs every exporter in order and joins their errors. One failing
// exporter does not stop the rest.
func All(ctx context.Context, exporters []Exporter, records []models.MergedRecord) error {
	var errs []error
	for _, e := range exporters {
		if err := e.Export(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package export

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/puckline/matchup/models"
)

// CSVExporter writes a header row and one row per merged record.
type CSVExporter struct {
	w io.Writer
}

// NewCSV returns an exporter writing to w.
func NewCSV(w io.Writer) *CSVExporter {
	return &CSVExporter{w: w}
}

func (e *CSVExporter) Name() string { return "csv" }

func (e *CSVExporter) Export(_ context.Context, records []models.MergedRecord) error {
	cw := csv.NewWriter(e.w)
	if err := cw.Write(Columns); err != nil {
		return failed(e.Name(), err)
	}
	for _, m := range records {
		if err := cw.Write(row(m)); err != nil {
			return failed(e.Name(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return failed(e.Name(), err)
	}
	return nil
}

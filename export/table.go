package export

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/puckline/matchup/models"
)

// TableExporter renders merged records as a terminal table with a footer
// counting matched rows.
type TableExporter struct {
	w     io.Writer
	style table.Style
}

// NewTable returns an exporter rendering to w.
func NewTable(w io.Writer) *TableExporter {
	return &TableExporter{w: w, style: table.StyleLight}
}

func (e *TableExporter) Name() string { return "table" }

func (e *TableExporter) Export(_ context.Context, records []models.MergedRecord) error {
	t := table.NewWriter()
	t.SetOutputMirror(e.w)
	t.SetStyle(e.style)

	header := table.Row{}
	for _, c := range Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	matched := 0
	for _, m := range records {
		r := table.Row{}
		for _, v := range row(m) {
			r = append(r, v)
		}
		t.AppendRow(r)
		if m.DefenseRank != models.RankNA {
			matched++
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "matched", matched, "of", len(records)})
	t.Render()
	return nil
}

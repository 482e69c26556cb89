package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/puckline/matchup/export"
	"github.com/puckline/matchup/models"
)

func quiet() Option { return WithLogger(slog.New(slog.DiscardHandler)) }

func TestReconcile(t *testing.T) {
	defense := []models.DefenseRecord{
		{Team: "Toronto", Opponent: "bos", Stat: "SOG", Rank: "25", Position: models.PosLeftWing},
		{Team: "TOR", Opponent: "BOS", Stat: "Hits", Rank: "10th"},
		{Team: "MTL", Opponent: "Montreal Canadiens", Stat: "Hits", Rank: "30th"},
		{Team: "L.A.", Opponent: "SJ", Stat: "Faceoff Wins", Rank: "#28"},
	}
	props := []models.PropRecord{
		{Player: "David Pastrnak", Team: "Boston", Opponent: "Maple Leafs", Stat: "Shots", Line: 3.5, Source: "a"},
		{Player: "Brad Marchand", Team: "BOS", Opponent: "TOR", Stat: "hits", Line: 1.5, Source: "b"},
		{Player: "Tomas Hertl", Team: "SJS", Opponent: "LA Kings", Stat: "FOW", Line: 12.5, Source: "a"},
		{Player: "Nick Suzuki", Team: "MTL", Opponent: "MTL", Stat: "Hits", Line: 0.5, Source: "b"},
	}

	merged, sum := New(quiet()).Reconcile(context.Background(), defense, props)

	want := []models.MergedRecord{
		{
			PropRecord:  models.PropRecord{Player: "David Pastrnak", Team: "BOS", Opponent: "TOR", Stat: "Shots on Goal", Line: 3.5, Source: "a"},
			DefenseRank: "25th",
			MatchTier:   models.TierExact,
		},
		{
			PropRecord:  models.PropRecord{Player: "Brad Marchand", Team: "BOS", Opponent: "TOR", Stat: "Hits", Line: 1.5, Source: "b"},
			DefenseRank: models.RankNA,
			MatchTier:   models.TierNone,
		},
		{
			PropRecord:  models.PropRecord{Player: "Tomas Hertl", Team: "SJS", Opponent: "LAK", Stat: "Faceoffs Won", Line: 12.5, Source: "a"},
			DefenseRank: "28th",
			MatchTier:   models.TierExact,
		},
		{
			PropRecord:  models.PropRecord{Player: "Nick Suzuki", Team: "MTL", Opponent: "", Stat: "Hits", Line: 0.5, Source: "b"},
			DefenseRank: models.RankNA,
			MatchTier:   models.TierNone,
		},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("Reconcile mismatch (-want +got):\n%s", diff)
	}

	wantSum := models.Summary{
		Props:          4,
		DefenseRecords: 2,
		DroppedDefense: 2,
		Matched:        2,
		Unmatched:      2,
		ByTier:         map[models.MatchTier]int{models.TierExact: 2, models.TierNone: 2},
	}
	if diff := cmp.Diff(wantSum, sum); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_CountsUnrecognizedIdentifiers(t *testing.T) {
	defense := []models.DefenseRecord{
		{Team: "TOR", Opponent: "Hamilton Tigers", Stat: "Time on Ice", Rank: "27th"},
	}
	props := []models.PropRecord{
		{Player: "A", Team: "Hamilton Tigers", Opponent: "TOR", Stat: "time  on ice", Line: 18.5},
		{Player: "B", Team: "BOS", Opponent: "TOR", Stat: "SOG", Line: 2.5},
		{Player: "C", Team: "BOS", Opponent: "", Stat: "Hits", Line: 1.5},
	}

	merged, sum := New(quiet()).Reconcile(context.Background(), defense, props)

	// One unknown team and one unknown stat, however often they appear.
	if sum.Unrecognized != 2 {
		t.Errorf("Unrecognized = %d, want 2", sum.Unrecognized)
	}
	if merged[0].Team != "HAMILTON TIGERS" || merged[0].Stat != "time on ice" {
		t.Errorf("unknown identifiers not passed through: %+v", merged[0].PropRecord)
	}
	if merged[0].DefenseRank != "27th" {
		t.Errorf("pass-through stat did not join: %+v", merged[0])
	}
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	defense := []models.DefenseRecord{{Team: "tor", Opponent: "bos", Stat: "sog", Rank: "25"}}
	props := []models.PropRecord{{Player: "A", Team: "bos", Opponent: "tor", Stat: "sog", Line: 2.5}}
	dCopy := append([]models.DefenseRecord(nil), defense...)
	pCopy := append([]models.PropRecord(nil), props...)

	New(quiet()).Reconcile(context.Background(), defense, props)

	if diff := cmp.Diff(dCopy, defense); diff != "" {
		t.Errorf("defense mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(pCopy, props); diff != "" {
		t.Errorf("props mutated (-before +after):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	r := New(quiet(), WithExporters(export.NewCSV(&buf)))

	merged, _ := r.Reconcile(context.Background(), nil, []models.PropRecord{
		{Player: "A", Team: "BOS", Opponent: "TOR", Stat: "SOG", Line: 2.5},
	})
	if err := r.Export(context.Background(), merged); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(buf.String(), "A,BOS,TOR,Shots on Goal,2.5,NA,,none") {
		t.Errorf("CSV output:\n%s", buf.String())
	}

	if err := New(quiet()).Export(context.Background(), merged); err != nil {
		t.Errorf("Export with no exporters: %v", err)
	}
}

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/webhook"
)

var sample = []models.MergedRecord{
	{
		PropRecord:  models.PropRecord{Player: "David Pastrnak", Team: "BOS", Opponent: "TOR", Stat: "Shots on Goal", Line: 3.5, Source: "underdog"},
		DefenseRank: "25th",
		MatchTier:   models.TierExact,
	},
	{
		PropRecord:  models.PropRecord{Player: "Brad Marchand, Jr.", Team: "BOS", Stat: "Points", Line: 0.5, Source: "prizepicks"},
		DefenseRank: models.RankNA,
		MatchTier:   models.TierNone,
	},
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSV(&buf).Export(context.Background(), sample); err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := strings.Join([]string{
		"player,team,opponent,stat,line,defense_rank,source,match_tier",
		"David Pastrnak,BOS,TOR,Shots on Goal,3.5,25th,underdog,exact",
		`"Brad Marchand, Jr.",BOS,,Points,0.5,NA,prizepicks,none`,
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSV(&buf).Export(context.Background(), nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("wrote %d lines, want header only", got)
	}
}

func TestTableExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTable(&buf).Export(context.Background(), sample); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PLAYER", "David Pastrnak", "25th", "MATCHED"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWebhookExporter(t *testing.T) {
	var got webhook.Event
	var payload sheetPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Data = &payload
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewWebhook(srv.URL, "")
	e.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	if err := e.Export(context.Background(), sample); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if got.Type != EventReconciled || got.RunID != "20250102T030405Z" {
		t.Errorf("event = %s/%s", got.Type, got.RunID)
	}
	if diff := cmp.Diff(Columns, payload.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(payload.Rows) != len(sample) || payload.Rows[0][5] != "25th" {
		t.Errorf("rows = %v", payload.Rows)
	}
}

func TestWebhookExporter_Async(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		var ev webhook.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		delivered <- ev.Type
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	e := NewWebhook(srv.URL, "").Async()
	if err := e.Export(context.Background(), sample); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Export returned while the endpoint was still blocked.
	release <- struct{}{}
	select {
	case typ := <-delivered:
		if typ != EventReconciled {
			t.Errorf("event type = %q", typ)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("background delivery never arrived")
	}
}

type failingExporter struct{ name string }

func (f failingExporter) Name() string { return f.name }
func (f failingExporter) Export(context.Context, []models.MergedRecord) error {
	return failed(f.name, errors.New("disk full"))
}

func TestAll(t *testing.T) {
	var buf bytes.Buffer
	err := All(context.Background(), []Exporter{failingExporter{"a"}, NewCSV(&buf), failingExporter{"b"}}, sample)
	if err == nil {
		t.Fatal("All returned nil, want joined error")
	}
	var me *models.MatchupError
	if !errors.As(err, &me) || me.Code != models.ErrCodeExportFailed {
		t.Errorf("error = %v, want EXPORT_FAILED", err)
	}
	if buf.Len() == 0 {
		t.Error("CSV exporter skipped after an earlier failure")
	}
}

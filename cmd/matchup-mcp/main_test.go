package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/puckline/matchup/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &client{http: srv.Client(), apiURL: srv.URL, apiKey: "k1"}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandleReconcile(t *testing.T) {
	var got models.ReconcileRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reconcile" || r.Header.Get("X-API-Key") != "k1" {
			t.Errorf("request %s key=%q", r.URL.Path, r.Header.Get("X-API-Key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(models.ReconcileResponse{
			Success: true,
			Records: []models.MergedRecord{{
				PropRecord:  models.PropRecord{Player: "David Pastrnak", Team: "BOS", Opponent: "TOR", Stat: "Shots on Goal", Line: 3.5},
				DefenseRank: "25th",
				MatchTier:   models.TierExact,
			}},
			Summary: models.Summary{Props: 1, Matched: 1},
		})
	})

	res, err := handleReconcile(c)(context.Background(), callTool(map[string]any{
		"props": []any{
			map[string]any{"player": "David Pastrnak", "team": "BOS", "opponent": "TOR", "stat": "SOG", "line": 3.5},
		},
		"defense": []any{
			map[string]any{"team": "TOR", "opponent": "BOS", "stat": "SOG", "rank": "25th"},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if len(got.Props) != 1 || got.Props[0].Line != 3.5 || len(got.Defense) != 1 {
		t.Errorf("forwarded request = %+v", got)
	}
	text := resultText(t, res)
	for _, want := range []string{"David Pastrnak", "25th", "1 matched"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleReconcile_MissingProps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API called without props")
	})
	res, err := handleReconcile(c)(context.Background(), callTool(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("missing props did not produce a tool error")
	}
}

func TestHandleExtract_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ExtractResponse{
			Error: &models.ErrorDetail{Code: models.ErrCodeUnavailable, Message: "server is running without a browser"},
		})
	})

	res, err := handleExtract(c)(context.Background(), callTool(map[string]any{
		"team": "TOR", "opponent": "BOS", "url": "https://example.com",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "UNAVAILABLE") {
		t.Errorf("result = %+v", res)
	}
}

func TestHandleExtract_NeedsOneSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API called with no source")
	})
	res, _ := handleExtract(c)(context.Background(), callTool(map[string]any{"team": "TOR", "opponent": "BOS"}))
	if !res.IsError {
		t.Error("no url or html accepted")
	}
}

func TestFormatDefense(t *testing.T) {
	out := formatDefense("TOR", "BOS", []models.DefenseRecord{
		{Team: "TOR", Opponent: "BOS", Stat: "Hits", Rank: "29th", Position: models.PosDefense},
		{Team: "TOR", Opponent: "BOS", Stat: "Points", Rank: "24th"},
	})
	for _, want := range []string{"2 weak spots", "- Hits: 29th (D)", "- Points: 24th (all)", `"rank":"29th"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := formatDefense("TOR", "BOS", nil); !strings.Contains(got, "No weak-defense") {
		t.Errorf("empty output = %q", got)
	}
}

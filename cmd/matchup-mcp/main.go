// Command matchup-mcp exposes the matchup HTTP API as MCP tools over stdio.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/puckline/matchup/export"
	"github.com/puckline/matchup/models"
)

func main() {
	apiURL := os.Getenv("MATCHUP_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("MATCHUP_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "MATCHUP_API_KEY is required")
		os.Exit(1)
	}

	c := &client{
		http:   &http.Client{Timeout: 200 * time.Second},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
	}

	s := server.NewMCPServer(
		"matchup",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_defense",
		mcp.WithDescription("Read one team's defense-vs-position section and return the stats where that defense ranks 24th to 32nd in the league. Give either a page URL or saved HTML."),
		mcp.WithString("team",
			mcp.Required(),
			mcp.Description("Defending team: abbreviation, city or nickname (e.g. TOR, Toronto, Maple Leafs)"),
		),
		mcp.WithString("opponent",
			mcp.Required(),
			mcp.Description("Team facing the defense"),
		),
		mcp.WithString("url",
			mcp.Description("Page to open in the server's browser"),
		),
		mcp.WithString("html",
			mcp.Description("Saved HTML of the section, instead of url"),
		),
		mcp.WithString("section",
			mcp.Description("CSS selector of the team's section on the page"),
		),
		mcp.WithBoolean("snapshot",
			mcp.Description("Fetch static HTML for url instead of clicking position filters in a live page"),
		),
	)
	s.AddTool(extractTool, handleExtract(c))

	reconcileTool := mcp.NewTool("reconcile_props",
		mcp.WithDescription("Attach weak-defense ranks to player prop lines. Each prop gets the rank of its opponent's defense for the same stat, or NA."),
		mcp.WithArray("props",
			mcp.Required(),
			mcp.Description("Prop lines: objects with player, team, opponent, stat, line and source"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithArray("defense",
			mcp.Description("Defense records from extract_defense: objects with team, opponent, stat and rank"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithBoolean("export",
			mcp.Description("Also send the merged rows to the server's configured exporters"),
		),
	)
	s.AddTool(reconcileTool, handleReconcile(c))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// client calls the matchup HTTP API.
type client struct {
	http   *http.Client
	apiURL string
	apiKey string
}

// post sends payload to path and decodes the JSON response into out. Error
// statuses still decode, since the API reports failures in the body.
func (c *client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}

func errorText(op string, e *models.ErrorDetail) string {
	if e == nil {
		return op + " failed"
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func handleExtract(c *client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		team, err := request.RequireString("team")
		if err != nil {
			return mcp.NewToolResultError("team is required"), nil
		}
		opponent, err := request.RequireString("opponent")
		if err != nil {
			return mcp.NewToolResultError("opponent is required"), nil
		}

		req := models.ExtractRequest{
			Team:     team,
			Opponent: opponent,
			URL:      request.GetString("url", ""),
			HTML:     request.GetString("html", ""),
			Section:  request.GetString("section", ""),
			Snapshot: request.GetBool("snapshot", false),
		}
		if (req.URL == "") == (req.HTML == "") {
			return mcp.NewToolResultError("give exactly one of url or html"), nil
		}

		var resp models.ExtractResponse
		if err := c.post(ctx, "/api/v1/extract", req, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText("extract", resp.Error)), nil
		}
		return mcp.NewToolResultText(formatDefense(team, opponent, resp.Records)), nil
	}
}

func formatDefense(team, opponent string, records []models.DefenseRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No weak-defense stats found for %s (vs %s).", team, opponent)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s defense vs %s: %d weak spots\n\n", team, opponent, len(records))
	for _, r := range records {
		pos := string(r.Position)
		if pos == "" {
			pos = "all"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", r.Stat, r.Rank, pos)
	}
	raw, _ := json.Marshal(records)
	fmt.Fprintf(&sb, "\nJSON: %s", raw)
	return sb.String()
}

func handleReconcile(c *client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		var req models.ReconcileRequest
		if err := remarshal(args["props"], &req.Props); err != nil || req.Props == nil {
			return mcp.NewToolResultError("props is required and must be an array of prop objects"), nil
		}
		if v, ok := args["defense"]; ok {
			if err := remarshal(v, &req.Defense); err != nil {
				return mcp.NewToolResultError("defense must be an array of defense records"), nil
			}
		}
		req.Export = request.GetBool("export", false)

		var resp models.ReconcileResponse
		if err := c.post(ctx, "/api/v1/reconcile", req, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText("reconcile", resp.Error)), nil
		}

		var sb strings.Builder
		if err := export.NewTable(&sb).Export(ctx, resp.Records); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("render table: %v", err)), nil
		}
		fmt.Fprintf(&sb, "\n%d props, %d matched, %d unmatched", resp.Summary.Props, resp.Summary.Matched, resp.Summary.Unmatched)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// remarshal converts a decoded JSON value into v.
func remarshal(in, v any) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

package export

import (
	"context"
	"time"

	"github.com/puckline/matchup/models"
	"github.com/puckline/matchup/webhook"
)

// EventReconciled is the webhook event type for a finished run.
const EventReconciled = "reconcile.completed"

// WebhookExporter posts the merged rows to a spreadsheet web-app endpoint
// as one signed event.
type WebhookExporter struct {
	url    string
	secret string
	delays []time.Duration
	async  bool
	now    func() time.Time
}

// NewWebhook returns an exporter posting to url. An empty secret sends
// unsigned events.
func NewWebhook(url, secret string) *WebhookExporter {
	return &WebhookExporter{url: url, secret: secret, delays: webhook.DefaultDelays, now: time.Now}
}

// Async switches e to fire-and-forget delivery: Export returns at once and
// retries run in the background. Delivery failures are only logged.
func (e *WebhookExporter) Async() *WebhookExporter {
	e.async = true
	return e
}

func (e *WebhookExporter) Name() string { return "webhook" }

// sheetPayload is the event data the spreadsheet web-app reads: a header
// row and the value rows.
type sheetPayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (e *WebhookExporter) Export(ctx context.Context, records []models.MergedRecord) error {
	payload := sheetPayload{Columns: Columns, Rows: make([][]string, 0, len(records))}
	for _, m := range records {
		payload.Rows = append(payload.Rows, row(m))
	}

	ts := e.now()
	ev := &webhook.Event{
		Type:      EventReconciled,
		RunID:     ts.UTC().Format("20060102T150405Z"),
		Timestamp: ts.Unix(),
		Data:      payload,
	}
	if e.async {
		webhook.DeliverAsync(e.url, e.secret, ev)
		return nil
	}
	if err := webhook.DeliverWithRetry(ctx, e.url, e.secret, ev, e.delays); err != nil {
		return failed(e.Name(), err)
	}
	return nil
}

package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/puckline/matchup/models"
)

// DefaultSettle is how long the DOM must stay unchanged after a filter
// click before the listing is read.
const DefaultSettle = 750 * time.Millisecond

// Options configures an Engine. Nil chains fall back to the defaults.
type Options struct {
	Activators []Activator
	Locators   []Locator
	Extractors []RowExtractor

	// Settle is passed to Page.WaitStable after each filter activation.
	Settle time.Duration

	Logger *slog.Logger
}

// DefaultOptions returns the production strategy chains.
func DefaultOptions() Options {
	return Options{
		Activators: DefaultActivators(),
		Locators:   DefaultLocators(),
		Extractors: DefaultExtractors(),
		Settle:     DefaultSettle,
		Logger:     slog.Default(),
	}
}

// Engine runs the position filter loop over one page. It holds no per-page
// state and may be reused across pages, one page at a time per call.
type Engine struct {
	activators []Activator
	locators   []Locator
	extractors []RowExtractor
	settle     time.Duration
	log        *slog.Logger
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Activators == nil {
		opts.Activators = def.Activators
	}
	if opts.Locators == nil {
		opts.Locators = def.Locators
	}
	if opts.Extractors == nil {
		opts.Extractors = def.Extractors
	}
	if opts.Settle <= 0 {
		opts.Settle = def.Settle
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Engine{
		activators: opts.Activators,
		locators:   opts.Locators,
		extractors: opts.Extractors,
		settle:     opts.Settle,
		log:        opts.Logger,
	}
}

type rowKey struct {
	label string
	rank  string
}

// Extract collects weak-defense records for team from page, attributing them
// to opponent. It never fails: every strategy failure is logged and skipped,
// and an empty slice is a valid result.
func (e *Engine) Extract(page Page, team, opponent string) []models.DefenseRecord {
	team, opponent = strings.TrimSpace(team), strings.TrimSpace(opponent)
	log := e.log.With("team", team, "opponent", opponent)

	seen := make(map[rowKey]struct{})
	var out []models.DefenseRecord

	for _, pos := range models.Positions {
		plog := log.With("position", string(pos))

		// ── 1. Activate filter ──────────────────────────────────────
		activator, ok := e.activate(page, pos, plog)
		if !ok {
			plog.Info("position skipped",
				"code", models.ErrCodeExtractionEmpty, "reason", "no filter control found")
			continue
		}
		plog.Debug("filter activated", "activator", activator)

		// ── 2. Settle ───────────────────────────────────────────────
		if err := e.safely(func() error { return page.WaitStable(e.settle) }); err != nil {
			plog.Debug("page did not settle, reading current DOM", "error", err)
		}

		// ── 3-5. Locate, extract, normalize, dedupe ─────────────────
		rows := e.scan(page, plog)
		out = e.collect(out, seen, rows, team, opponent, pos)
	}

	if len(out) > 0 {
		log.Info("extraction complete", "records", len(out))
		return out
	}

	// Last resort: read whatever the page shows now, unfiltered.
	log.Info("no records from position filters, running unfiltered pass")
	rows := e.scan(page, log.With("position", "unfiltered"))
	out = e.collect(out, seen, rows, team, opponent, "")
	log.Info("extraction complete", "records", len(out), "unfiltered", true)
	return out
}

// activate runs the activator chain for pos and returns the name of the
// first activator that succeeded.
func (e *Engine) activate(page Page, pos models.Position, log *slog.Logger) (string, bool) {
	for _, a := range e.activators {
		if err := e.safely(func() error { return a.Activate(page, pos) }); err != nil {
			log.Debug("activator failed", "activator", a.Name(), "error", err)
			continue
		}
		return a.Name(), true
	}
	return "", false
}

// scan snapshots the page and runs the locator chain, then the extractor
// chain on each located container. A container that yields no rows passes
// control to the next locator. A panicking strategy counts as a miss.
func (e *Engine) scan(page Page, log *slog.Logger) []Row {
	var markup string
	err := e.safely(func() (err error) {
		markup, err = page.HTML()
		return err
	})
	if err != nil {
		log.Warn("page snapshot failed", "error", err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		log.Warn("page snapshot unparsable", "error", err)
		return nil
	}

	for _, loc := range e.locators {
		var (
			container *goquery.Selection
			ok        bool
		)
		_ = e.safely(func() error {
			container, ok = loc.Locate(doc)
			return nil
		})
		if !ok {
			log.Debug("locator found nothing", "locator", loc.Name(), "code", models.ErrCodeLocatorNotFound)
			continue
		}
		for _, ex := range e.extractors {
			var rows []Row
			_ = e.safely(func() error {
				rows = ex.Extract(container)
				return nil
			})
			if len(rows) == 0 {
				log.Debug("extractor found no rows", "locator", loc.Name(), "extractor", ex.Name())
				continue
			}
			log.Debug("rows extracted", "locator", loc.Name(), "extractor", ex.Name(), "rows", len(rows))
			return rows
		}
	}

	log.Info("no ranking rows found", "code", models.ErrCodeExtractionEmpty)
	return nil
}

// collect normalizes ranks, keeps the weak band and appends records not
// already seen in this call.
func (e *Engine) collect(out []models.DefenseRecord, seen map[rowKey]struct{}, rows []Row, team, opponent string, pos models.Position) []models.DefenseRecord {
	for _, r := range rows {
		label := collapseSpace(r.Label)
		rank := NormalizeRank(r.Rank)
		if label == "" || rank == "" || !IsWeakRank(rank) {
			continue
		}
		key := rowKey{label: label, rank: rank}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.DefenseRecord{
			Team:     team,
			Opponent: opponent,
			Stat:     label,
			Rank:     rank,
			Position: pos,
		})
	}
	return out
}

// safely runs fn, turning a panic from a page driver or strategy into an
// error so one misbehaving step cannot abort the run.
func (e *Engine) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = models.NewMatchupError(models.ErrCodeInternal, "strategy panicked", nil)
			e.log.Warn("strategy panicked", "panic", r)
		}
	}()
	return fn()
}

package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/puckline/matchup/engine"
	"github.com/puckline/matchup/models"
)

// loadSettle is how long the DOM must be quiet after navigation.
const loadSettle = 300 * time.Millisecond

// OpenSection navigates a pooled tab to rawURL and returns it as a RodPage
// scoped to the section selector (empty means the whole page). ctx bounds
// every later operation on the page. The caller must Close the page.
func (s *Scraper) OpenSection(ctx context.Context, rawURL, section string, stealthOn bool) (*RodPage, error) {
	bound, release, err := s.open(ctx, rawURL, stealthOn, nil)
	if err != nil {
		return nil, err
	}
	return &RodPage{page: bound, section: section, release: release}, nil
}

// FetchRendered renders req.URL in the browser and returns the full HTML.
// It is the fetch function behind the rod engines.
func (s *Scraper) FetchRendered(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	timeout := req.Timeout
	if timeout <= 0 || timeout > s.scraperCfg.MaxTimeout {
		timeout = s.scraperCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, release, err := s.open(ctx, req.URL, req.Stealth, req.Headers)
	if err != nil {
		return nil, err
	}
	defer release()

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}
	return &engine.FetchResult{
		HTML:       rawHTML,
		Title:      evalStringOrEmpty(p, `() => document.title`),
		StatusCode: navigationStatus(p),
		FinalURL:   finalURL,
		EngineName: "rod",
	}, nil
}

// Snapshot returns static HTML for rawURL. With a dispatcher it races the
// HTTP engine against the browser; otherwise it renders in the browser.
func (s *Scraper) Snapshot(ctx context.Context, rawURL string, stealthOn bool) (*engine.FetchResult, error) {
	req := &engine.FetchRequest{
		URL:     rawURL,
		Timeout: s.scraperCfg.DefaultTimeout,
		Stealth: stealthOn,
	}
	if s.dispatcher != nil {
		return s.dispatcher.Dispatch(ctx, req)
	}
	return s.FetchRendered(ctx, req)
}

// open runs the tab lifecycle up to a loaded page.
//
//  1. Acquire page           – borrow a tab from the pool
//  2. Cleanup                – about:blank + return to pool, run by release
//  3. Stealth injection      – before navigation
//  4. Extra headers          – custom headers + search Referer
//  5. Hijack mount           – block heavy resources and trackers
//  6. Context binding        – every later call honours ctx
//  7. Navigate
//  8. Wait                   – DOM stable
//
// release uses the unbound page so cleanup still works once ctx expires.
func (s *Scraper) open(ctx context.Context, rawURL string, stealthOn bool, headers map[string]string) (*rod.Page, func(), error) {
	if ctx.Err() != nil {
		return nil, nil, categorizeError(ctx.Err(), "request expired before navigation")
	}

	// ── 1. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	page, err := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		s.activePages.Add(-1)
		return nil, nil, models.NewMatchupError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}

	// ── 2. Cleanup ────────────────────────────────────────────────────
	var router *rod.HijackRouter
	release := func() {
		if router != nil {
			_ = router.Stop()
		}
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
		s.activePages.Add(-1)
	}

	// ── 3. Stealth injection ──────────────────────────────────────────
	if stealthOn {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	// ── 4. Extra headers ──────────────────────────────────────────────
	extra := make(map[string]string, len(headers)+1)
	if _, ok := headers["Referer"]; !ok {
		if u, parseErr := url.Parse(rawURL); parseErr == nil {
			extra["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range headers {
		extra[k] = v
	}
	if len(extra) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(extra)}.Call(page)
	}

	// ── 5. Hijack mount ───────────────────────────────────────────────
	router = s.blocker.mount(page)

	// ── 6. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate ───────────────────────────────────────────────────
	nav := p
	if s.scraperCfg.NavigationTimeout > 0 {
		nav = p.Timeout(s.scraperCfg.NavigationTimeout)
	}
	navErr := nav.Navigate(rawURL)
	if nav != p {
		nav.CancelTimeout()
	}
	if navErr != nil {
		release()
		return nil, nil, categorizeError(navErr, "navigation to target URL failed")
	}

	// ── 8. Wait ───────────────────────────────────────────────────────
	if stableErr := p.WaitDOMStable(loadSettle, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", stableErr)
	}

	return p, release, nil
}

// navigationStatus reads the HTTP status of the main document, or 0.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed MatchupErrors so the API layer
// can map them to HTTP status codes.
func categorizeError(err error, msg string) *models.MatchupError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewMatchupError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewMatchupError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewMatchupError(models.ErrCodeNavigation, msg, err)
	}
}

// Package extract pulls weak-defense (statistic, rank) observations out of a
// rendered defense-vs-position page section.
//
// The page layout changes often and carries little semantic markup, so every
// step is an ordered chain of small strategies: activate a position filter,
// locate the ranking container, extract rows. A chain stops at the first
// strategy that succeeds. A failed step is logged and skipped; the engine
// never returns an error and an empty result is a valid outcome.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/puckline/matchup/models"
)

// ErrLocatorNotFound reports that a single locator strategy found nothing.
// Callers match it with errors.Is; the error code is what is compared.
var ErrLocatorNotFound = models.NewMatchupError(models.ErrCodeLocatorNotFound, "locator not found", nil)

// Page is a handle to a rendered page already navigated and scoped to one
// team's defensive-matchup section. It is owned by a single scraping session
// and must not be used concurrently.
type Page interface {
	// HTML returns the current rendered markup.
	HTML() (string, error)

	// Click clicks the first element matching the CSS selector.
	Click(selector string) error

	// ClickText clicks the first element matching the CSS selector whose
	// visible text, trimmed, equals text (case-insensitive).
	ClickText(selector, text string) error

	// SelectOption picks the option whose visible text equals text in the
	// first <select> matching the selector that offers it.
	SelectOption(selector, text string) error

	// WaitStable blocks until the DOM stops changing for d, bounded by the
	// page's own deadline.
	WaitStable(d time.Duration) error
}

// StaticPage is a Page over a saved HTML snapshot. It has no live controls:
// every interaction reports ErrLocatorNotFound, which drives the engine to
// its unfiltered pass.
type StaticPage struct {
	markup string
}

// NewStaticPage wraps a rendered HTML snapshot.
func NewStaticPage(markup string) *StaticPage {
	return &StaticPage{markup: markup}
}

func (p *StaticPage) HTML() (string, error) { return p.markup, nil }

func (p *StaticPage) Click(selector string) error {
	return notFound("click %q on static snapshot", selector)
}

func (p *StaticPage) ClickText(selector, text string) error {
	return notFound("click %q text %q on static snapshot", selector, text)
}

func (p *StaticPage) SelectOption(selector, text string) error {
	return notFound("select %q option %q on static snapshot", selector, text)
}

func (p *StaticPage) WaitStable(time.Duration) error { return nil }

// notFound builds a LOCATOR_NOT_FOUND error with context.
func notFound(format string, args ...any) error {
	return models.NewMatchupError(models.ErrCodeLocatorNotFound, fmt.Sprintf(format, args...), nil)
}

// Scope returns a page over the outer HTML of the first element matching
// selector, or p itself when nothing matches.
func (p *StaticPage) Scope(selector string) *StaticPage {
	if selector == "" {
		return p
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.markup))
	if err != nil {
		return p
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return p
	}
	outer, err := goquery.OuterHtml(sel)
	if err != nil {
		return p
	}
	return &StaticPage{markup: outer}
}

package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Locator finds the container holding the ranking listing in a snapshot.
type Locator interface {
	Name() string
	Locate(doc *goquery.Document) (*goquery.Selection, bool)
}

// DefaultLocators is the container chain: the active panel, then a
// heading-anchored search, then a scan of every block element.
func DefaultLocators() []Locator {
	return []Locator{activePanel{}, headingAnchored{}, genericScan{}}
}

// rankMentionRe finds rank-shaped text inside a larger block: ordinals
// ("25th") and hash ranks ("#25").
var rankMentionRe = regexp.MustCompile(`(?i)(?:#\s*\d{1,2}\b|\b\d{1,2}(?:st|nd|rd|th)\b)`)

// sectionHeadingRe matches heading text that introduces a defensive matchup
// listing.
var sectionHeadingRe = regexp.MustCompile(`(?i)defen[cs]e|vs\.?\s*(?:position|pos)|matchup|allowed|against|ranks?\b|rankings?`)

var (
	activePanelSel = cascadia.MustCompile(`[role="tabpanel"]:not([hidden]):not([aria-hidden="true"]), ` +
		`.tab-pane.active, .tab-pane.show, .tab-content > .active, ` +
		`[class*="panel"].active, [class*="panel"].is-active, [class*="panel"].selected, ` +
		`[data-state="active"], [aria-expanded="true"] + *`)
	headingSel = cascadia.MustCompile(`h1, h2, h3, h4, h5, h6, [role="heading"], caption, legend, ` +
		`[class*="title"], [class*="heading"], [class*="header"]`)
	blockSel = cascadia.MustCompile(`div, section, article, table, tbody, ul, ol, dl, main, aside`)
)

// rankMentions counts rank-shaped tokens in the visible text of sel.
func rankMentions(sel *goquery.Selection) int {
	return len(rankMentionRe.FindAllStringIndex(ownText(sel), -1))
}

// activePanel picks the currently visible tab panel that mentions ranks.
type activePanel struct{}

func (activePanel) Name() string { return "active-panel" }

func (activePanel) Locate(doc *goquery.Document) (*goquery.Selection, bool) {
	var found *goquery.Selection
	doc.FindMatcher(activePanelSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if rankMentions(s) > 0 {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

// headingAnchored finds a heading naming the defensive matchup section and
// returns the nearest block after it, or around it, that mentions ranks.
type headingAnchored struct{}

func (headingAnchored) Name() string { return "heading-anchored" }

// maxHeadingClimb bounds how far up from a heading the search walks.
const maxHeadingClimb = 3

func (headingAnchored) Locate(doc *goquery.Document) (*goquery.Selection, bool) {
	var found *goquery.Selection
	doc.FindMatcher(headingSel).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := ownText(h)
		if text == "" || len(text) > 80 || !sectionHeadingRe.MatchString(text) {
			return true
		}

		// Siblings following the heading.
		h.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if rankMentions(s) > 0 {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return false
		}

		// The enclosing section.
		p := h.Parent()
		for i := 0; i < maxHeadingClimb && p.Length() > 0; i++ {
			if goquery.NodeName(p) == "body" {
				break
			}
			if rankMentions(p) > 0 {
				found = p
				return false
			}
			p = p.Parent()
		}
		return true
	})
	return found, found != nil
}

// genericScan scores every block element by its rank mentions and returns
// the best one. Ties go to the block with less text, which is the tightest
// wrapper around the same rows.
type genericScan struct{}

func (genericScan) Name() string { return "generic-scan" }

func (genericScan) Locate(doc *goquery.Document) (*goquery.Selection, bool) {
	var (
		best      *goquery.Selection
		bestCount int
		bestLen   int
	)
	doc.FindMatcher(blockSel).Each(func(_ int, s *goquery.Selection) {
		text := ownText(s)
		n := len(rankMentionRe.FindAllStringIndex(text, -1))
		if n == 0 {
			return
		}
		if n > bestCount || (n == bestCount && len(text) < bestLen) {
			best, bestCount, bestLen = s, n, len(text)
		}
	})
	return best, best != nil
}

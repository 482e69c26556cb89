package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Row is one raw (statistic label, rank text) observation, before rank
// normalization and filtering.
type Row struct {
	Label string
	Rank  string
}

// RowExtractor pulls rows out of a located container.
type RowExtractor interface {
	Name() string
	Extract(container *goquery.Selection) []Row
}

// DefaultExtractors is the row chain: structured rows and cells, then
// regexes over flattened text, then a card and grid element scan.
func DefaultExtractors() []RowExtractor {
	return []RowExtractor{tableRows{}, flatText{}, cardScan{}}
}

var (
	rowSel  = cascadia.MustCompile(`tr, [role="row"]`)
	cellSel = cascadia.MustCompile(`td, th, [role="cell"], [role="gridcell"], [role="rowheader"], [role="columnheader"]`)
	cardSel = cascadia.MustCompile(`[class*="card"], [class*="tile"], [class*="stat"], [class*="item"], ` +
		`[data-stat], [data-rank], li, dl > div`)
)

// ── 1. Structured rows ──────────────────────────────────────────────

// tableRows reads table rows and ARIA grid rows: the first label-like cell
// is the statistic and the first rank-like cell after it is the rank.
type tableRows struct{}

func (tableRows) Name() string { return "table-rows" }

func (tableRows) Extract(container *goquery.Selection) []Row {
	rows := container.FindMatcher(rowSel)
	if rows.Length() == 0 && container.Is(`tr, [role="row"]`) {
		rows = container
	}

	var out []Row
	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.FindMatcher(cellSel)
		if cells.Length() < 2 {
			return
		}
		var label, rank string
		cells.EachWithBreak(func(_ int, td *goquery.Selection) bool {
			text := ownText(td)
			switch {
			case label == "" && isStatLabel(text):
				label = text
			case label != "":
				if r := cellRank(text); r != "" {
					rank = r
					return false
				}
			}
			return true
		})
		if label != "" && rank != "" {
			out = append(out, Row{Label: label, Rank: rank})
		}
	})
	return out
}

// cellRank returns the rank a cell leads with: a bare rank token, or an
// ordinal or hash rank followed by extra text ("25th (31.2)").
func cellRank(text string) string {
	if isRankToken(text) {
		return text
	}
	if loc := rankMentionRe.FindStringIndex(text); loc != nil && loc[0] == 0 {
		return text[loc[0]:loc[1]]
	}
	return ""
}

// ── 2. Flattened text ───────────────────────────────────────────────

// labelPart captures a statistic label: starts with a letter, no separators.
const labelPart = `([A-Za-z][^:#|•;\d]*?[A-Za-z.)])`

// flatPatterns are tried in order against every text segment. Each has a
// label and a rank group; rankFirst marks patterns where the rank leads.
var flatPatterns = []struct {
	re        *regexp.Regexp
	rankFirst bool
}{
	// "Shots on Goal 25th", "Hits: ranked 31st"
	{re: regexp.MustCompile(`(?i)^` + labelPart + `\s*[:\-]?\s*(?:rank(?:ed)?\s*:?\s*)?#?\s*(\d{1,2}(?:st|nd|rd|th))\b`)},
	// "Hits #31"
	{re: regexp.MustCompile(`(?i)^` + labelPart + `\s*[:\-]?\s*#\s*(\d{1,2})\b`)},
	// "Hits rank 31"
	{re: regexp.MustCompile(`(?i)^` + labelPart + `\s*[:\-]?\s*rank(?:ed)?\s*:?\s*(\d{1,2})\b`)},
	// "Hits 31"
	{re: regexp.MustCompile(`(?i)^` + labelPart + `\s*[:\-]?\s*(\d{1,2})$`)},
	// "25th Shots on Goal", "#31 - Hits"
	{re: regexp.MustCompile(`(?i)^(#\s*\d{1,2}|\d{1,2}(?:st|nd|rd|th))\s*[:\-.)]?\s+` + labelPart + `$`), rankFirst: true},
}

// segmentSplitRe splits one visual line into independent segments.
var segmentSplitRe = regexp.MustCompile(`\s*[|•;]\s*`)

// flatText flattens the container into visual lines and matches each line
// (or segment of a line) against label-rank patterns. A label on its own
// line followed by a bare rank on the next line also counts.
type flatText struct{}

func (flatText) Name() string { return "flat-text" }

func (flatText) Extract(container *goquery.Selection) []Row {
	lines := flattenLines(container)

	var out []Row
	for i := 0; i < len(lines); i++ {
		matched := false
		for _, seg := range segmentSplitRe.Split(lines[i], -1) {
			if row, ok := matchSegment(seg); ok {
				out = append(out, row)
				matched = true
			}
		}
		if matched {
			continue
		}

		// Label line, rank line.
		if i+1 < len(lines) && isStatLabel(lines[i]) && isRankToken(lines[i+1]) {
			out = append(out, Row{Label: lines[i], Rank: lines[i+1]})
			i++
		}
	}
	return out
}

func matchSegment(seg string) (Row, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return Row{}, false
	}
	for _, p := range flatPatterns {
		m := p.re.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		label, rank := m[1], m[2]
		if p.rankFirst {
			label, rank = m[2], m[1]
		}
		label = strings.TrimSpace(label)
		if isStatLabel(label) {
			return Row{Label: label, Rank: rank}, true
		}
	}
	return Row{}, false
}

// ── 3. Card and grid scan ───────────────────────────────────────────

// cardScan reads leaf card/tile elements: the label comes from a data-stat
// attribute or the first label-like line; the rank from a data-rank
// attribute or the first rank-shaped text.
type cardScan struct{}

func (cardScan) Name() string { return "card-scan" }

func (cardScan) Extract(container *goquery.Selection) []Row {
	var out []Row
	container.FindMatcher(cardSel).Each(func(_ int, card *goquery.Selection) {
		row, ok := readCard(card)
		if !ok {
			return
		}
		// Only the innermost readable card; an outer grid would merge its
		// children into one row.
		nested := false
		card.FindMatcher(cardSel).EachWithBreak(func(_ int, inner *goquery.Selection) bool {
			_, nested = readCard(inner)
			return !nested
		})
		if !nested {
			out = append(out, row)
		}
	})
	return out
}

func readCard(card *goquery.Selection) (Row, bool) {
	label := strings.TrimSpace(card.AttrOr("data-stat", ""))
	rank := strings.TrimSpace(card.AttrOr("data-rank", ""))

	pieces := cardPieces(card)
	if label == "" {
		for _, p := range pieces {
			if isStatLabel(p) && !rankMentionRe.MatchString(p) {
				label = p
				break
			}
		}
	}
	if rank == "" {
		for _, p := range pieces {
			if r := cellRank(p); r != "" {
				rank = r
				break
			}
			if m := rankMentionRe.FindString(p); m != "" {
				rank = m
				break
			}
		}
	}
	if label == "" || rank == "" || !isStatLabel(label) {
		return Row{}, false
	}
	return Row{Label: label, Rank: rank}, true
}

// cardPieces returns the text of each leaf element in card, or the card's
// own text when it has no child elements.
func cardPieces(card *goquery.Selection) []string {
	leaves := card.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, skip := skipTags[goquery.NodeName(s)]
		return !skip && s.Children().Length() == 0
	})
	if leaves.Length() == 0 {
		leaves = card
	}

	var pieces []string
	leaves.Each(func(_ int, s *goquery.Selection) {
		if t := ownText(s); t != "" {
			pieces = append(pieces, t)
		}
	})
	return pieces
}

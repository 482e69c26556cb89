package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags end a visual line when flattening text.
var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figure": {},
	"footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {},
	"h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {}, "main": {},
	"nav": {}, "ol": {}, "p": {}, "section": {}, "table": {}, "tbody": {},
	"thead": {}, "tfoot": {}, "tr": {}, "ul": {},
}

// skipTags never contribute visible text.
var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {}, "svg": {},
}

// flattenLines renders the visible text of sel as lines, breaking at block
// element boundaries. Each line has its whitespace collapsed; empty lines
// are dropped.
func flattenLines(sel *goquery.Selection) []string {
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if _, skip := skipTags[n.Data]; skip {
				return
			}
		}
		_, block := blockTags[n.Data]
		if block {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				buf.WriteByte(' ')
			}
			walk(c)
		}
		if block {
			buf.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	raw := strings.Split(buf.String(), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = collapseSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ownText returns sel's visible text with whitespace collapsed.
func ownText(sel *goquery.Selection) string {
	return collapseSpace(sel.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var letterRe = regexp.MustCompile(`[A-Za-z]`)

// isStatLabel reports whether s looks like a statistic label rather than a
// number, a rank or boilerplate.
func isStatLabel(s string) bool {
	if s == "" || len(s) > 40 || !letterRe.MatchString(s) || isRankToken(s) {
		return false
	}
	switch strings.ToLower(s) {
	case "rank", "ranking", "stat", "stats", "statistic", "category", "team",
		"opponent", "position", "pos", "value", "avg", "average", "per game":
		return false
	}
	return true
}

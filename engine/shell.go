package engine

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// minVisibleText is the body text length below which a page is treated as
// an unrendered shell.
const minVisibleText = 200

var (
	reNoscript  = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)
	reEmptyRoot = regexp.MustCompile(`<div id="(root|app|__next|__nuxt)">\s*</div>`)
)

// NeedsBrowser reports whether an HTTP-fetched body is a client-rendered
// shell whose rankings only exist after JavaScript runs.
func NeedsBrowser(body []byte) bool {
	text := visibleText(body)
	if len(text) < minVisibleText {
		return true
	}

	lower := strings.ToLower(string(body))
	if reEmptyRoot.MatchString(lower) || reNoscript.MatchString(lower) {
		return true
	}
	return strings.Count(lower, "<script") > 10 && len(text) < 500
}

// visibleText returns the text inside <body>, without script, style and
// noscript content.
func visibleText(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	var buf strings.Builder
	inBody := false
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "body":
				inBody = true
			case "script", "style", "noscript":
				skip++
			}
		case html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if !inBody || skip > 0 {
				continue
			}
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				buf.WriteString(t)
				buf.WriteByte(' ')
			}
		}
	}
}

// pageTitle returns the text of the first <title> element.
func pageTitle(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := z.TagName()
			if string(tn) != "title" {
				continue
			}
			if z.Next() == html.TextToken {
				return strings.TrimSpace(string(z.Text()))
			}
			return ""
		}
	}
}

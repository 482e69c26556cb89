package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/puckline/matchup/extract"
)

// maxTextCandidates bounds how many elements ClickText reads text from.
const maxTextCandidates = 200

// RodPage is an extract.Page over a live browser tab. Queries are scoped to
// the section element when it exists, and fall back to the whole document
// when the section holds no match. Nothing waits for elements to appear:
// a missing element reports extract.ErrLocatorNotFound at once.
type RodPage struct {
	page    *rod.Page
	section string

	release func()
	once    sync.Once
}

var _ extract.Page = (*RodPage)(nil)

// Close returns the tab to the pool. It is safe to call more than once.
func (p *RodPage) Close() {
	p.once.Do(func() {
		if p.release != nil {
			p.release()
		}
	})
}

// HTML returns the section's outer HTML, or the document's if the section
// is not on the page.
func (p *RodPage) HTML() (string, error) {
	if root := p.root(); root != nil {
		return root.HTML()
	}
	return p.page.HTML()
}

func (p *RodPage) Click(selector string) error {
	els, err := p.query(selector)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return missing("no element matches %q", selector)
	}
	return click(els.First())
}

func (p *RodPage) ClickText(selector, text string) error {
	els, err := p.query(selector)
	if err != nil {
		return err
	}
	want := strings.TrimSpace(text)
	for i, el := range els {
		if i >= maxTextCandidates {
			break
		}
		got, err := el.Text()
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(got), want) {
			return click(el)
		}
	}
	return missing("no %q element with text %q", selector, text)
}

func (p *RodPage) SelectOption(selector, text string) error {
	els, err := p.query(selector)
	if err != nil {
		return err
	}
	pattern := `^\s*` + regexp.QuoteMeta(strings.TrimSpace(text)) + `\s*$`
	for _, el := range els {
		if err := el.Select([]string{pattern}, true, rod.SelectorTypeRegex); err == nil {
			return nil
		}
	}
	return missing("no %q select offers %q", selector, text)
}

func (p *RodPage) WaitStable(d time.Duration) error {
	return p.page.WaitDOMStable(d, 0.1)
}

// root returns the section element, or nil when unscoped or absent.
func (p *RodPage) root() *rod.Element {
	if p.section == "" {
		return nil
	}
	els, err := p.page.Elements(p.section)
	if err != nil || len(els) == 0 {
		return nil
	}
	return els.First()
}

func (p *RodPage) query(selector string) (rod.Elements, error) {
	if root := p.root(); root != nil {
		els, err := root.Elements(selector)
		if err == nil && len(els) > 0 {
			return els, nil
		}
	}
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return els, nil
}

// click dispatches a real mouse click, falling back to a DOM click for
// controls that are covered or off-screen.
func click(el *rod.Element) error {
	if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
		return nil
	}
	_, err := el.Eval(`() => this.click()`)
	return err
}

func missing(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), extract.ErrLocatorNotFound)
}

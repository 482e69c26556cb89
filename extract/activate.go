package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/puckline/matchup/models"
)

// Activator switches the page to one position filter.
type Activator interface {
	Name() string
	Activate(page Page, pos models.Position) error
}

// controlSelector matches elements a filter control is usually rendered as.
const controlSelector = `button, a, [role="tab"], [role="button"], [role="radio"], li, label, ` +
	`span[class*="tab"], div[class*="tab"], span[class*="filter"], div[class*="filter"]`

// DefaultActivators is the filter activation chain: exact visible text,
// then attribute lookup, then a native <select>.
func DefaultActivators() []Activator {
	return []Activator{textControl{}, attributeControl{}, selectControl{}}
}

// textControl clicks an interactive control whose visible text is exactly
// one of the position's labels.
type textControl struct{}

func (textControl) Name() string { return "text-control" }

func (textControl) Activate(page Page, pos models.Position) error {
	return tryEach(pos.Labels(), func(label string) error {
		return page.ClickText(controlSelector, label)
	})
}

// attributeControl clicks a control identified by data/aria attributes.
type attributeControl struct{}

func (attributeControl) Name() string { return "attribute-control" }

func (attributeControl) Activate(page Page, pos models.Position) error {
	return tryEach(attributeSelectors(pos), page.Click)
}

// attributeSelectors lists the attribute lookups tried for pos, most
// specific first.
func attributeSelectors(pos models.Position) []string {
	code := string(pos)
	variants := []string{code, strings.ToLower(code)}
	var sels []string
	for _, attr := range []string{"data-position", "data-pos", "data-filter", "data-value"} {
		for _, v := range variants {
			sels = append(sels, fmt.Sprintf(`[%s="%s"]`, attr, v))
		}
	}
	for _, label := range pos.Labels()[1:] {
		sels = append(sels, fmt.Sprintf(`[aria-label="%s"]`, label))
	}
	for _, v := range variants {
		sels = append(sels,
			fmt.Sprintf(`input[value="%s"]`, v),
			fmt.Sprintf(`button[value="%s"]`, v),
			fmt.Sprintf(`[role="tab"][aria-controls$="-%s"]`, v),
			fmt.Sprintf(`[role="tab"][aria-controls$="_%s"]`, v),
		)
	}
	return sels
}

// selectControl chooses the position in a native <select> element.
type selectControl struct{}

func (selectControl) Name() string { return "select-option" }

func (selectControl) Activate(page Page, pos models.Position) error {
	return tryEach(pos.Labels(), func(label string) error {
		return page.SelectOption("select", label)
	})
}

// tryEach calls fn for each candidate until one succeeds. It returns the
// last error when none does.
func tryEach(candidates []string, fn func(string) error) error {
	err := error(ErrLocatorNotFound)
	for _, c := range candidates {
		if err = fn(c); err == nil {
			return nil
		}
	}
	if errors.Is(err, ErrLocatorNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrLocatorNotFound, err)
}

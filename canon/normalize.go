// Package canon maps the many spellings of team and statistic identifiers
// used by the prop and defense sources onto one canonical form.
//
// Both canonicalizers are total: an unknown input is passed through rather
// than rejected, and applying either function twice gives the same result as
// applying it once. The alias tables are read-only after init, so every
// function here is safe for concurrent use.
package canon

import (
	"strings"
	"unicode"
)

// Normalize prepares a label for comparison: lower-case, separators
// ("-", "_", "/") become spaces, all other punctuation and symbols are
// dropped, and runs of whitespace collapse to a single space.
//
//	Normalize("Shots-on-Goal")  == "shots on goal"
//	Normalize(" F.O.W. ")       == "fow"
//	Normalize("Blocked  Shots") == "blocked shots"
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '/', '\\', '|':
			return ' '
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// collapse trims s and folds internal whitespace runs to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lookupKey is the alias-table key for s. Upper-casing before lower-casing
// keeps the key stable for strings that were themselves produced by
// upper-casing a miss.
func lookupKey(s string) string {
	return strings.ToLower(collapse(strings.ToUpper(s)))
}

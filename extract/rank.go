package extract

import (
	"regexp"
	"strconv"

	"github.com/puckline/matchup/models"
)

var rankDigitsRe = regexp.MustCompile(`(?i)(\d+)\s*(st|nd|rd|th)?`)

// rankTokenRe matches text that is nothing but a rank, e.g. "25th", "#25", "25".
var rankTokenRe = regexp.MustCompile(`(?i)^(?:rank(?:ed)?\s*)?#?\s*\d{1,2}\s*(?:st|nd|rd|th)?$`)

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// with 11th, 12th and 13th (and 111th, ...) taking "th".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// NormalizeRank rewrites the first number in text as an ordinal rank:
// "24" -> "24th", "#21" -> "21st", "22ND" -> "22nd". It returns "" when text
// has no digits.
func NormalizeRank(text string) string {
	n, ok := RankValue(text)
	if !ok {
		return ""
	}
	return Ordinal(n)
}

// RankValue decodes the first number in text.
func RankValue(text string) (int, bool) {
	m := rankDigitsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsWeakRank reports whether rank decodes into the weak-defense band.
func IsWeakRank(rank string) bool {
	n, ok := RankValue(rank)
	return ok && n >= models.WeakRankMin && n <= models.WeakRankMax
}

// isRankToken reports whether s, already trimmed, is a bare rank.
func isRankToken(s string) bool {
	return rankTokenRe.MatchString(s)
}

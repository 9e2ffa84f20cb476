package textutil

import (
	"strings"

	"github.com/adrg/strutil/metrics"
)

const containmentScore = 0.8

// Normalize prepares a string for comparison: lowercase, "&" folded to
// "and", apostrophes stripped, hyphens turned into spaces, repeated spaces
// collapsed, surrounding space trimmed.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Similarity reports how alike two strings are on a [0, 1] scale.
// Either input empty scores 0; normalized equality scores 1; one normalized
// string containing the other scores 0.8; anything else falls back to a
// Levenshtein ratio over the longer input, floored at 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return 1.0
	}
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return containmentScore
	}
	distance := Levenshtein(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	score := 1 - float64(distance)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

// Levenshtein returns the classic edit distance between a and b with unit
// costs for insertion, deletion, and substitution. Symmetric in its inputs.
func Levenshtein(a, b string) int {
	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false
	return metric.Distance(a, b)
}

package title

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarThreshold is the ratio at or above which two cleaned titles are
// treated as the same work.
const SimilarThreshold = 0.90

// Similarity returns the Ratcliff–Obershelp ratio (2*M / (len(a)+len(b)))
// of a and b, compared character by character. Two empty strings are
// identical.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

// Compare reports how a cleaned candidate title relates to a cleaned query.
func Compare(query, candidate string, threshold float64) Relation {
	if query == "" || candidate == "" {
		return Unrelated
	}
	if query == candidate {
		return Exact
	}
	if Similarity(query, candidate) >= threshold {
		return Similar
	}
	return Unrelated
}

// Relation is the outcome of comparing two cleaned titles.
type Relation int

const (
	Unrelated Relation = iota
	Similar
	Exact
)

// Contains reports whether either remedial key contains the other.
// Empty keys never match.
func Contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

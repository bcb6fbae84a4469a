package verify

import (
	"github.com/matsen/refcheck/internal/title"
)

// MatchTitles compares a title query against search-result titles in rank
// order. The first result whose cleaned title equals the cleaned query is a
// match; the first at or above threshold similarity is similar. A result
// that is neither is skipped, and no acceptable result gives no_result.
func MatchTitles(query string, candidates []string, threshold float64) ScholarType {
	q := title.Clean(query)
	for _, c := range candidates {
		switch title.Compare(q, title.Clean(c), threshold) {
		case title.Exact:
			return ScholarMatch
		case title.Similar:
			return ScholarSimilar
		}
	}
	return ScholarNoResult
}

// MatchRemedial reports whether the top result of a full-text search
// corresponds to the reference text.
func MatchRemedial(refText string, candidates []string) bool {
	if len(candidates) == 0 {
		return false
	}
	return title.Contains(title.CleanForRemedial(refText), title.CleanForRemedial(candidates[0]))
}

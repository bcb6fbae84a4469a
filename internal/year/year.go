// Package year finds publication-year tokens in reference text.
//
// Two families of tokens are recognized:
//   - APA: a year or "n.d." in half- or full-width parentheses, e.g. "(2019)." or "（2020a）"
//   - APA-like: a year set off by punctuation, e.g. "Smith J., 2019. Title" or "，2019，。"
//
// Offsets are byte offsets into the input string. Context windows
// (the preceding-digit guard, the decimal-continuation guard) are measured
// in characters so that full-width punctuation counts once.
package year

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Valid year range, inclusive.
const (
	MinYear = 1000
	MaxYear = 2050
)

// GuardWindow is the number of characters before a year that must be free
// of digits for the year to count. Rejects years inside page ranges and
// other long numeric runs.
const GuardWindow = 5

// Variant identifies which rule produced a match.
type Variant int

const (
	VariantAPA Variant = iota
	VariantAPALike
	VariantAPALikeZH
)

func (v Variant) String() string {
	switch v {
	case VariantAPA:
		return "apa"
	case VariantAPALike:
		return "apa_like"
	case VariantAPALikeZH:
		return "apa_like_zh"
	default:
		return "unknown"
	}
}

// Match is one year token found in a string.
type Match struct {
	Start     int    // Byte offset of the whole token (opening bracket or punctuation)
	End       int    // Byte offset just past the token
	YearStart int    // Byte offset of the year itself
	Year      int    // Four-digit year, 0 when NoDate
	Suffix    string // Disambiguation letter, e.g. "a" in 2019a
	NoDate    bool   // Token was "n.d."
	Variant   Variant
}

var (
	apaPattern = regexp.MustCompile(`(?i)[（(](\d{4}[a-c]?|n\.d\.)[）)]?[。.]?`)

	apaLikePattern   = regexp.MustCompile(`(?i)[,，.。]\s*(\d{4}[a-c]?)[.。，]`)
	apaLikeZHPattern = regexp.MustCompile(`，\s*(\d{4}[a-c]?)\s*，\s*。`)

	// A year followed by ".12" or ".ab" is a version or volume number.
	decimalContinuation = regexp.MustCompile(`(?i)^\.(\d{1,2}|[a-z0-9]{2,})`)

	// An arXiv identifier followed by its year, e.g. "arXiv:1905.01234, 2019".
	arxivYear = regexp.MustCompile(`(?i)arxiv:\d{4}\.\d{5}[^a-zA-Z0-9]{0,3}\s*[,，]?\s*(\d{4}[a-c]?)`)
)

// IsValid reports whether the first four characters of s form a year in [MinYear, MaxYear].
func IsValid(s string) bool {
	if len(s) < 4 {
		return false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return false
	}
	return y >= MinYear && y <= MaxYear
}

// FindAPA returns every APA year token in text, in source order.
func FindAPA(text string) []Match {
	var matches []Match
	for _, loc := range apaPattern.FindAllStringSubmatchIndex(text, -1) {
		token := text[loc[2]:loc[3]]
		if digitBefore(text, loc[2], GuardWindow) {
			continue
		}
		m := Match{Start: loc[0], End: loc[1], YearStart: loc[2], Variant: VariantAPA}
		switch {
		case strings.EqualFold(token, "n.d."):
			m.NoDate = true
		case IsValid(token):
			m.Year, m.Suffix = splitYear(token)
		default:
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// FindAPALike returns every APA-like year token in text, sorted by Start.
// A year reached by both rules is reported once.
func FindAPALike(text string) []Match {
	var matches []Match
	seen := make(map[int]bool)

	for _, loc := range apaLikePattern.FindAllStringSubmatchIndex(text, -1) {
		token := text[loc[2]:loc[3]]
		if !IsValid(token) {
			continue
		}
		if digitBefore(text, loc[2], GuardWindow) {
			continue
		}
		if decimalContinuation.MatchString(runePrefix(text[loc[3]:], 5)) {
			continue
		}
		if arxivYearBefore(text, token, loc[2]) {
			continue
		}
		y, suffix := splitYear(token)
		matches = append(matches, Match{Start: loc[0], End: loc[1], YearStart: loc[2], Year: y, Suffix: suffix, Variant: VariantAPALike})
		seen[loc[2]] = true
	}

	for _, loc := range apaLikeZHPattern.FindAllStringSubmatchIndex(text, -1) {
		token := text[loc[2]:loc[3]]
		if seen[loc[2]] || digitBefore(text, loc[2], GuardWindow) || !IsValid(token) {
			continue
		}
		y, suffix := splitYear(token)
		matches = append(matches, Match{Start: loc[0], End: loc[1], YearStart: loc[2], Year: y, Suffix: suffix, Variant: VariantAPALikeZH})
	}

	sortByStart(matches)
	return matches
}

// FindAll returns APA and APA-like tokens merged in source order.
// When both families hit the same year, the APA token wins.
func FindAll(text string) []Match {
	apa := FindAPA(text)
	all := make([]Match, 0, len(apa))
	all = append(all, apa...)

	taken := make(map[int]bool, len(apa))
	for _, m := range apa {
		taken[m.YearStart] = true
	}
	for _, m := range FindAPALike(text) {
		if !taken[m.YearStart] {
			all = append(all, m)
		}
	}

	sortByStart(all)
	return all
}

func sortByStart(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
}

func splitYear(token string) (int, string) {
	y, _ := strconv.Atoi(token[:4])
	return y, token[4:]
}

// arxivYearBefore reports whether token also appears as the year trailing an
// arXiv identifier that starts before pos.
func arxivYearBefore(text, token string, pos int) bool {
	for _, loc := range arxivYear.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] >= pos {
			return false
		}
		if strings.HasPrefix(text[loc[2]:loc[3]], token) {
			return true
		}
	}
	return false
}

// digitBefore reports whether any of the n characters before pos is a digit.
func digitBefore(text string, pos, n int) bool {
	for i := 0; i < n && pos > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(text[:pos])
		if unicode.IsDigit(r) {
			return true
		}
		pos -= size
	}
	return false
}

// runePrefix returns at most n characters from the start of s.
func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// BackOff moves pos back by n characters, stopping at 0.
func BackOff(text string, pos, n int) int {
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:pos])
		pos -= size
	}
	return pos
}

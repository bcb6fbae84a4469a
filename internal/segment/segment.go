// Package segment turns a raw reference block into one string per citation.
//
// Extracted paragraphs rarely line up with citations: PDF text wraps one
// citation over several lines, and occasionally several citations share a
// line. Bracket-numbered lists are rejoined and cut at each "[n]"; other
// blocks are merged line by line using the style package's head test.
package segment

import (
	"regexp"
	"strings"

	"github.com/matsen/refcheck/internal/style"
	"github.com/matsen/refcheck/internal/year"
)

// DefaultBackoff is how many characters before a year token a multi-citation
// split is made, leaving room for the author name that precedes the year.
const DefaultBackoff = 5

// Options tunes segmentation.
type Options struct {
	Backoff int `yaml:"split_backoff" json:"split_backoff"`
}

// DefaultOptions returns the standard segmentation options.
func DefaultOptions() Options {
	return Options{Backoff: DefaultBackoff}
}

var bracketToken = regexp.MustCompile(`\[\d+\]`)

// Segment splits a raw reference block into entries, choosing the bracket
// splitter when the block starts with a "[n]" index and the merger otherwise.
func Segment(raw []string, opts Options) []string {
	if entries, ok := SplitBracketed(raw); ok {
		return entries
	}
	return Merge(raw, opts)
}

// SplitBracketed joins paragraphs with single spaces and cuts the result
// before every "[n]" token. It applies only when the first paragraph starts
// with such a token; otherwise ok is false.
func SplitBracketed(paragraphs []string) (entries []string, ok bool) {
	if len(paragraphs) == 0 || !style.StartsWithIndex(paragraphs[0]) {
		return nil, false
	}

	text := strings.Join(paragraphs, " ")
	var cuts []int
	for _, loc := range bracketToken.FindAllStringIndex(text, -1) {
		cuts = append(cuts, loc[0])
	}
	return cutAt(text, cuts), true
}

// Merge rebuilds wrapped citations. A paragraph holding two or more year
// tokens of the same family is split into one entry per citation; a paragraph that looks like
// a reference head starts a new entry; anything else continues the previous
// entry. The first paragraph always starts an entry.
func Merge(paragraphs []string, opts Options) []string {
	merged := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch {
		case holdsSeveralCitations(para):
			merged = append(merged, SplitMultiCitation(para, opts.Backoff)...)
		case style.LooksLikeHead(para) || len(merged) == 0:
			merged = append(merged, para)
		default:
			merged[len(merged)-1] += " " + para
		}
	}
	return merged
}

// holdsSeveralCitations reports whether para carries two APA or two APA-like
// year tokens. One APA year plus one APA-like year is a single citation whose
// venue or date repeats the year.
func holdsSeveralCitations(para string) bool {
	return len(year.FindAPA(para)) >= 2 || len(year.FindAPALike(para)) >= 2
}

// SplitMultiCitation cuts a paragraph holding several citations into one
// segment per year token. Each cut is made backoff characters before every
// token after the first. Paragraphs with fewer than two tokens are returned
// whole.
func SplitMultiCitation(paragraph string, backoff int) []string {
	matches := year.FindAll(paragraph)
	if len(matches) < 2 {
		return []string{paragraph}
	}
	if backoff < 0 {
		backoff = 0
	}

	cuts := make([]int, 0, len(matches)-1)
	for _, m := range matches[1:] {
		cuts = append(cuts, year.BackOff(paragraph, m.Start, backoff))
	}
	return cutAt(paragraph, cuts)
}

// cutAt splits text at ascending byte offsets, trimming each piece and
// dropping empty ones.
func cutAt(text string, cuts []int) []string {
	var out []string
	start := 0
	for _, c := range cuts {
		if piece := strings.TrimSpace(text[start:c]); piece != "" {
			out = append(out, piece)
		}
		start = c
	}
	if piece := strings.TrimSpace(text[start:]); piece != "" {
		out = append(out, piece)
	}
	return out
}

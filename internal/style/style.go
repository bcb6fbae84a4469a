// Package style classifies single reference strings by citation convention.
package style

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/year"
)

// MinNumberedHeadLen is the length a "12." style line must exceed to count
// as the start of a reference rather than a stray list marker.
const MinNumberedHeadLen = 25

var (
	// BracketIndex matches a leading "[12]" index.
	BracketIndex = regexp.MustCompile(`^\[\d+\]`)

	numberedMarker = regexp.MustCompile(`^\d{1,3}[.)、．]\s+`)
)

// titleQuote marks a quoted article title. Typographic quotes are left
// out: APA titles in word-processor output often carry them.
const titleQuote = `"`

// StartsWithIndex reports whether text begins with a bracketed integer index.
func StartsWithIndex(text string) bool {
	return BracketIndex.MatchString(strings.TrimSpace(text))
}

// Classify returns the citation style of a single reference. It never fails;
// text with no recognizable signal is StyleUnknown.
func Classify(text string) reference.StyleTag {
	switch {
	case StartsWithIndex(text) || strings.Contains(text, titleQuote):
		return reference.StyleIEEE
	case len(year.FindAPA(text)) > 0:
		return reference.StyleAPA
	case len(year.FindAPALike(text)) > 0:
		return reference.StyleAPALike
	default:
		return reference.StyleUnknown
	}
}

// LooksLikeHead reports whether a paragraph plausibly begins a new reference
// entry, as opposed to continuing a wrapped one.
func LooksLikeHead(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(year.FindAPA(text)) > 0 {
		return true
	}
	if BracketIndex.MatchString(trimmed) {
		return true
	}
	if numberedMarker.MatchString(trimmed) && utf8.RuneCountInString(trimmed) > MinNumberedHeadLen {
		return true
	}
	return len(year.FindAPALike(text)) > 0
}

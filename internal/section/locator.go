// Package section finds the reference section in a document's paragraphs.
//
// The locator scans from the last paragraph toward the first. At each line
// that could be a heading it tries its rules in order and stops at the first
// hit; everything after the heading, up to an appendix heading, is the
// section. With no heading anywhere, the last reference-formatted paragraph
// and what follows it are taken instead.
package section

import (
	"strings"

	"github.com/matsen/refcheck/internal/reference"
)

// Locator finds reference sections using an ordered list of heading rules.
type Locator struct {
	rules []Rule
}

// NewLocator creates a Locator. With no rules, DefaultRules is used.
func NewLocator(rules ...Rule) *Locator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Locator{rules: rules}
}

var defaultLocator = NewLocator()

// Locate finds the reference section using the default rules.
func Locate(paragraphs []string) reference.Section {
	return defaultLocator.Locate(paragraphs)
}

// Locate returns the reference section of paragraphs. It never fails: a
// document without references yields an empty section with MethodNotFound.
func (l *Locator) Locate(paragraphs []string) reference.Section {
	for i := len(paragraphs) - 1; i >= 0; i-- {
		if !plausibleHeading(paragraphs[i]) {
			continue
		}
		for _, rule := range l.rules {
			if rule.Match(paragraphs, i) {
				return reference.Section{
					RawEntries: ClipAtAppendix(paragraphs[i+1:]),
					Heading:    strings.TrimSpace(paragraphs[i]),
					Method:     rule.Method,
				}
			}
		}
	}

	if i := lastReferenceLike(paragraphs); i >= 0 {
		return reference.Section{
			RawEntries: ClipAtAppendix(paragraphs[i:]),
			Method:     reference.MethodFormatFallback,
		}
	}

	return reference.Section{
		RawEntries: []string{},
		Method:     reference.MethodNotFound,
	}
}

func lastReferenceLike(paragraphs []string) int {
	for i := len(paragraphs) - 1; i >= 0; i-- {
		if LooksLikeReference(paragraphs[i]) {
			return i
		}
	}
	return -1
}

// Package pipeline turns a document's paragraphs into classified, cleaned
// reference entries.
//
// A Pipeline holds no mutable state; one value may serve any number of
// concurrent Run calls.
package pipeline

import (
	"strings"

	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/section"
	"github.com/matsen/refcheck/internal/segment"
	"github.com/matsen/refcheck/internal/style"
	"github.com/matsen/refcheck/internal/title"
)

// Options configures a Pipeline.
type Options struct {
	Segment segment.Options
}

// DefaultOptions returns the standard pipeline options.
func DefaultOptions() Options {
	return Options{Segment: segment.DefaultOptions()}
}

// Pipeline locates, segments, classifies and cleans references.
type Pipeline struct {
	locator *section.Locator
	opts    Options
}

// New creates a Pipeline using the default heading rules.
func New(opts Options) *Pipeline {
	return &Pipeline{locator: section.NewLocator(), opts: opts}
}

// NewWithLocator creates a Pipeline with a custom section locator.
func NewWithLocator(locator *section.Locator, opts Options) *Pipeline {
	return &Pipeline{locator: locator, opts: opts}
}

// Run processes one document with default options.
func Run(paragraphs []string) reference.Result {
	return New(DefaultOptions()).Run(paragraphs)
}

// Run processes the paragraphs of one document. It never fails: a document
// without a reference section produces an empty result with MethodNotFound.
func (p *Pipeline) Run(paragraphs []string) reference.Result {
	sec := p.locator.Locate(normalize(paragraphs))
	return reference.Result{
		Entries: BuildEntries(segment.Segment(sec.RawEntries, p.opts.Segment)),
		Heading: sec.Heading,
		Method:  sec.Method,
	}
}

// BuildEntries classifies and cleans each segmented reference, in order.
func BuildEntries(refs []string) []reference.Entry {
	entries := make([]reference.Entry, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		entries = append(entries, reference.Entry{
			Original:     ref,
			CleanedTitle: title.Clean(ref),
			Style:        style.Classify(ref),
		})
	}
	return entries
}

// normalize trims paragraphs and drops empty ones. The input is not modified.
func normalize(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

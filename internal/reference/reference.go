// Package reference defines the value types produced by the reference-section pipeline.
package reference

// StyleTag labels the citation convention of a single reference entry.
type StyleTag string

const (
	StyleIEEE    StyleTag = "IEEE"     // Bracketed index or quoted title
	StyleAPA     StyleTag = "APA"      // Parenthesized year
	StyleAPALike StyleTag = "APA_LIKE" // Punctuation-delimited year
	StyleUnknown StyleTag = "Unknown"
)

// DetectionMethod records how the reference section was located.
// Values are listed in the order the locator tries them.
type DetectionMethod string

const (
	MethodExactHeading    DetectionMethod = "exact_heading"
	MethodNumberedHeading DetectionMethod = "numbered_heading"
	MethodFuzzyHeading    DetectionMethod = "fuzzy_heading_with_content"
	MethodFormatFallback  DetectionMethod = "format_fallback"
	MethodNotFound        DetectionMethod = "not_found"
)

// Found reports whether the method located a section at all.
func (m DetectionMethod) Found() bool {
	return m != MethodNotFound && m != ""
}

// Section is the raw reference block cut out of a document's paragraphs.
type Section struct {
	RawEntries []string        `json:"raw_entries"`
	Heading    string          `json:"heading,omitempty"` // Empty when no heading line was found
	Method     DetectionMethod `json:"method"`
}

// Entry is one logical bibliographic citation.
type Entry struct {
	Original     string   `json:"original"`      // Untouched reference text
	CleanedTitle string   `json:"cleaned_title"` // Comparison key for title searches
	Style        StyleTag `json:"style"`
}

// Result is the output of one pipeline run over a document.
type Result struct {
	Entries []Entry         `json:"entries"`
	Heading string          `json:"heading,omitempty"`
	Method  DetectionMethod `json:"method"`
}

// Count returns the number of entries.
func (r Result) Count() int {
	return len(r.Entries)
}

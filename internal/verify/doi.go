package verify

import (
	"regexp"
	"strings"
)

// DOI pattern: 10.XXXX/... where XXXX is 4 to 9 digits.
var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// FindDOI returns the first DOI in text, or "" if there is none.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Sentence punctuation often trails a DOI at the end of a reference.
		match = strings.TrimRight(match, ".")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

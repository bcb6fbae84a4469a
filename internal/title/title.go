// Package title turns reference text into comparison keys for title lookups.
package title

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean returns the comparison key for text: NFKC-normalized, dashes turned
// into spaces, only letters, numbers and separators kept, letters
// lower-cased, whitespace collapsed.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	return filter(replaceDashes(norm.NFKC.String(text)))
}

// CleanForRemedial is Clean with standalone digit runs removed first. Used
// for loose containment checks where page numbers and years get in the way.
func CleanForRemedial(text string) string {
	if text == "" {
		return ""
	}
	return filter(stripNumericTokens(replaceDashes(norm.NFKC.String(text))))
}

// isDash reports whether r should split words: any Pd code point plus the minus sign.
func isDash(r rune) bool {
	return unicode.Is(unicode.Pd, r) || r == '−'
}

func replaceDashes(s string) string {
	return strings.Map(func(r rune) rune {
		if isDash(r) {
			return ' '
		}
		return r
	}, s)
}

func filter(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsNumber(r), unicode.In(r, unicode.Z):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// stripNumericTokens drops digit runs that are not attached to a letter or number.
func stripNumericTokens(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		if !unicode.IsDigit(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		j := i
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}
		attached := (i > 0 && isWordRune(runes[i-1])) || (j < len(runes) && isWordRune(runes[j]))
		if attached {
			b.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return b.String()
}

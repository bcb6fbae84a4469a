package section

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matsen/refcheck/internal/reference"
)

// Heading keyword sets. Comparisons are against the lower-cased, trimmed line.
var (
	ExactKeywords = []string{
		"references",
		"bibliography",
		"works cited",
		"literature cited",
		"references and citations",
		"參考文獻",
		"參考資料",
		"參考文獻格式",
	}

	FuzzyKeywords = []string{
		"reference",
		"bibliography",
		"參考",
		"文獻",
	}
)

const (
	// MaxHeadingLen is the longest line, in characters, accepted as a heading.
	MaxHeadingLen = 30

	// FuzzyLookahead is how many paragraphs after a fuzzy heading are
	// checked for reference-formatted content.
	FuzzyLookahead = 5

	// MinReferenceLen is the shortest paragraph that can look like a reference.
	MinReferenceLen = 10
)

var (
	numberedHeadingPattern = regexp.MustCompile(
		`(?i)^(?:第?[一二三四五六七八九十百千萬壹貳參肆伍陸柒捌玖拾佰仟]+章[、．.︑,，]?|(?:\d+|(?-i:[IVXLCDM]+\b)|[一二三四五六七八九十壹貳參肆伍陸柒捌玖拾]+)[、．.︑,， ]?)` +
			`\s*(?:參考文獻|參考資料|references?|bibliography|works cited|literature cited|references and citations)\s*$`,
	)

	// numberingPrefix strips a leading chapter or section number so its
	// separator is not mistaken for sentence punctuation.
	numberingPrefix = regexp.MustCompile(
		`(?i)^(?:第?[一二三四五六七八九十百千萬壹貳參肆伍陸柒捌玖拾佰仟]+章|\d+|(?-i:[IVXLCDM]+\b)|[一二三四五六七八九十壹貳參肆伍陸柒捌玖拾]+)[、．.︑,，]?\s*`,
	)

	sentencePunct = regexp.MustCompile(`[.,;:]`)

	parenYear      = regexp.MustCompile(`\(\d{4}[a-c]?\)`)
	bracketIndex   = regexp.MustCompile(`^\[\d+\]`)
	surnameAndInit = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]\.`)
)

// Rule is one heading heuristic. Match is called with the index of the
// candidate heading line and may look at the surrounding paragraphs.
type Rule struct {
	Method reference.DetectionMethod
	Match  func(paragraphs []string, i int) bool
}

// ExactHeading matches a line equal to one of keywords.
func ExactHeading(keywords []string) Rule {
	set := keywordSet(keywords)
	return Rule{
		Method: reference.MethodExactHeading,
		Match: func(paragraphs []string, i int) bool {
			return set[normalize(paragraphs[i])]
		},
	}
}

// NumberedHeading matches a chapter- or section-numbered heading such as
// "7. References", "VII REFERENCES" or "第五章 參考文獻".
func NumberedHeading() Rule {
	return Rule{
		Method: reference.MethodNumberedHeading,
		Match: func(paragraphs []string, i int) bool {
			// Matched on the original case: Roman numerals must be upper-case.
			return numberedHeadingPattern.MatchString(strings.TrimSpace(paragraphs[i]))
		},
	}
}

// FuzzyHeading matches a line equal to one of keywords, but only when at
// least one of the next lookahead paragraphs looks like a reference.
func FuzzyHeading(keywords []string, lookahead int) Rule {
	set := keywordSet(keywords)
	return Rule{
		Method: reference.MethodFuzzyHeading,
		Match: func(paragraphs []string, i int) bool {
			if !set[normalize(paragraphs[i])] {
				return false
			}
			end := min(i+1+lookahead, len(paragraphs))
			for _, p := range paragraphs[i+1 : end] {
				if LooksLikeReference(p) {
					return true
				}
			}
			return false
		},
	}
}

// DefaultRules returns the heading rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		ExactHeading(ExactKeywords),
		NumberedHeading(),
		FuzzyHeading(FuzzyKeywords, FuzzyLookahead),
	}
}

// LooksLikeReference reports whether text is formatted like a bibliography
// entry: long enough and carrying a parenthesized year, a leading "[n]"
// index, or a "Surname, I." author pattern.
func LooksLikeReference(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinReferenceLen {
		return false
	}
	return parenYear.MatchString(text) ||
		bracketIndex.MatchString(text) ||
		surnameAndInit.MatchString(text)
}

// plausibleHeading rejects lines that read like body text: too long, or
// carrying sentence punctuation outside a leading section number.
func plausibleHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxHeadingLen {
		return false
	}
	rest := numberingPrefix.ReplaceAllString(text, "")
	return !sentencePunct.MatchString(rest)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func keywordSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		set[normalize(k)] = true
	}
	return set
}

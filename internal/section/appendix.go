package section

import (
	"regexp"
	"strings"
)

// appendixPattern matches a line that is only an appendix heading, optionally
// bracketed and numbered, e.g. "APPENDIX", "1. Appendix", "IV Appendix",
// "【附錄】" or "(三、附錄)".
var appendixPattern = regexp.MustCompile(
	`(?i)^([【〔（(]?\s*)?((\d+|[IVXLCDM]+|[一二三四五六七八九十壹貳參肆伍陸柒捌玖拾]+)[、．. ]?)?\s*(附錄|APPENDIX)(\s*[】〕）)]?)?$`,
)

// IsAppendixHeading reports whether text is an appendix heading line.
func IsAppendixHeading(text string) bool {
	return appendixPattern.MatchString(strings.TrimSpace(text))
}

// ClipAtAppendix returns paragraphs up to, not including, the first appendix heading.
func ClipAtAppendix(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if IsAppendixHeading(p) {
			break
		}
		out = append(out, p)
	}
	return out
}

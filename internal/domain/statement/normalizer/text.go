// Package normalizer cleans statement text before extraction and sanitizes
// transaction merchants afterwards.
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reLineBreak  = regexp.MustCompile(`\r\n?`)
	reHSpace     = regexp.MustCompile(`[\t\f\v ]+`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// invisible runes that PDF renderers leave behind and that carry no content
var invisible = strings.NewReplacer(
	"\uFEFF", "", // byte order mark
	"\u00AD", "", // soft hyphen
	"\u200B", "", // zero width space
	"\u200C", "",
	"\u200D", "",
)

// Normalize cleans raw statement text. Line boundaries survive so tabular
// transaction sections stay parseable; redundant intra-line whitespace is
// collapsed and a label line ending in ':' is joined with the value line
// that follows it. Digits, currency glyphs and date separators are kept.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// NFKC folds no-break and figure spaces to ' ' and full-width digits to ASCII.
	s := norm.NFKC.String(raw)
	s = invisible.Replace(s)
	s = reLineBreak.ReplaceAllString(s, "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(reHSpace.ReplaceAllString(lines[i], " "))

		if strings.HasSuffix(line, ":") {
			if next, skip := nextNonEmpty(lines, i+1); next != "" && !strings.HasSuffix(next, ":") {
				line = line + " " + next
				i = skip
			}
		}
		out = append(out, line)
	}

	s = strings.Join(out, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// nextNonEmpty returns the first non-blank cleaned line at or after from and
// its index.
func nextNonEmpty(lines []string, from int) (string, int) {
	for j := from; j < len(lines); j++ {
		line := strings.TrimSpace(reHSpace.ReplaceAllString(lines[j], " "))
		if line != "" {
			return line, j
		}
	}
	return "", from
}

// IsBlank reports whether the text has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

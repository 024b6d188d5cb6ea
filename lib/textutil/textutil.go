package textutil

import (
	"html"
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Clean decodes HTML entities, converts non-breaking spaces to regular
// spaces, collapses inner whitespace runs and trims the result.
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.Trim(s, " \n\t")
}

func NormalizeLabel(s string) string {
	return strings.ToLower(Clean(s))
}

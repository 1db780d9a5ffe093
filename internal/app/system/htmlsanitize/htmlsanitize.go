// Package htmlsanitize strips markup from user-entered text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag. Safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// PlainText removes all HTML from s and returns the remaining text with
// entities decoded, so "Dela Cruz &amp; Sons" comes back as "Dela Cruz & Sons".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no tags.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>") || strict.Sanitize(s) == html.EscapeString(s)
}

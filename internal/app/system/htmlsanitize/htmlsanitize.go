// Package htmlsanitize cleans user-entered text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and strips scripts, event handlers
// and javascript: links.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// PlainText removes all markup and returns unescaped, trimmed text. Used for
// survey comments and notes, which are rendered as plain text.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextMap applies PlainText to every string value of m in place and
// returns m. Nested maps are walked.
func PlainTextMap(m map[string]any) map[string]any {
	for k, v := range m {
		switch tv := v.(type) {
		case string:
			m[k] = PlainText(tv)
		case map[string]any:
			m[k] = PlainTextMap(tv)
		}
	}
	return m
}

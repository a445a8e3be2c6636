// Package sanitize strips markup from user-supplied text before it is stored.
// Avatar bios, topics and posts are plain text; any HTML is removed.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use once built.
var policy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding Text peels off.
const maxPasses = 8

// Text removes all tags and surrounding whitespace and returns plain,
// unescaped text. Markup hidden behind entities ("&lt;script&gt;") is decoded
// and stripped too; the loop stops once a pass no longer changes the text.
func Text(s string) string {
	for range maxPasses {
		clean := html.UnescapeString(policy.Sanitize(html.UnescapeString(s)))
		if clean == s {
			return strings.TrimSpace(clean)
		}
		s = clean
	}
	// Still changing: keep the escaped form, which is safe to render.
	return strings.TrimSpace(policy.Sanitize(s))
}

// List sanitizes each entry and drops the ones left empty.
func List(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if clean := Text(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// Unique is List with duplicates removed, keeping first occurrence order.
func Unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range List(in) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

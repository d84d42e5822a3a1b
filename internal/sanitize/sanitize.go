// Package sanitize strips markup from user-supplied text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML tag and attribute and trims surrounding space.
// The result is plain text; escaping is left to whoever renders it.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Ptr sanitizes an optional field in place and returns it.
func Ptr(s *string) *string {
	if s != nil {
		*s = Text(*s)
	}
	return s
}

// Strings sanitizes each element and drops the ones left empty.
func Strings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := Text(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}

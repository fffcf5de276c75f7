// Package slug normalizes category slugs taken from query strings.
package slug

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Category lowercases s and collapses anything that is not a letter or digit
// into single dashes. Blank input yields "".
func Category(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

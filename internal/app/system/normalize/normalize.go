// Package normalize provides helper functions for consistent string
// normalization of request input before it is stored or echoed back.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// Name trims whitespace and drops invalid UTF-8 sequences.
func Name(s string) string {
	return strings.ToValidUTF8(strings.TrimSpace(s), "")
}

// Truncate returns at most maxBytes of s, cut back to a rune boundary so
// the result stays valid UTF-8 when s is.
func Truncate(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}
	n := maxBytes
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Package catalog turns a loosely structured spreadsheet export into canonical
// aroma rows and derives totals, views and order messages from them.
package catalog

import "strings"

// NormalizeName canonicalizes a user name or column header for matching.
//
// Steps run in a fixed order: trim, lowercase, NBSP to space, then a single
// non-overlapping pass collapsing "  " into " ". The last step is not
// recursive, so three or more spaces collapse only partially and
// NormalizeName(NormalizeName(x)) may differ from NormalizeName(x).
func NormalizeName(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "  ", " ")
	return s
}

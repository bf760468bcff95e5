package util

import (
	"unicode/utf8"
)

// TruncateRunes: safe truncation by runes, with an ellipsis when cut
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n]) + "…"
}

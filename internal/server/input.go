package server

import (
	"strings"
	"unicode/utf8"
)

// MaxQueryLength bounds a single query parameter in bytes.
const MaxQueryLength = 1024

// CleanQueryParam trims whitespace, drops control characters other than tab
// and newline, and truncates to maxLen bytes on a rune boundary.
func CleanQueryParam(input string, maxLen int) string {
	input = strings.TrimSpace(input)
	var b strings.Builder
	for _, r := range input {
		if r >= 0x20 && r != 0x7f || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return LimitStringLength(b.String(), maxLen)
}

// LimitStringLength truncates input to at most maxLength bytes without
// splitting a UTF-8 sequence.
func LimitStringLength(input string, maxLength int) string {
	if maxLength <= 0 || len(input) <= maxLength {
		return input
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut]
}

// SplitList splits a comma-separated parameter, trimming and dropping empty
// items. It returns nil for an empty list.
func SplitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

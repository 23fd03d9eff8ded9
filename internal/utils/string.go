package utils

import (
	"strings"
	"unicode"
)

// Sanitize lowercases s and keeps only letters, digits and plain spaces.
// Tabs, newlines and every other rune are dropped.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasAlnum reports whether s holds at least one letter or digit.
func HasAlnum(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}

// SanitizeWords splits s on whitespace before sanitizing each word, so words
// separated by tabs or newlines stay apart. Words left empty are dropped.
func SanitizeWords(s string) []string {
	fields := strings.Fields(s)
	words := fields[:0]
	for _, f := range fields {
		if w := Sanitize(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

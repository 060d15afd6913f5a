// Package textutil holds the small text helpers shared by the metrics engine.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	maxNameRunes = 15
	unknownName  = "Unknown"
)

// CleanName normalizes an author name for grouping and display: NFC form,
// only letters, numbers, underscore, whitespace and hyphen kept, trimmed, and
// cut to 15 runes with a ".." suffix. An empty result becomes "Unknown".
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(name) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return unknownName
	}
	if utf8.RuneCountInString(cleaned) > maxNameRunes {
		return string([]rune(cleaned)[:maxNameRunes]) + ".."
	}
	return cleaned
}

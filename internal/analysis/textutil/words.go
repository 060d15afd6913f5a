package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minWordRunes = 3

// Stopwords are excluded from word frequency counts. They cover the export
// placeholders plus the most common short English function words.
var Stopwords = map[string]struct{}{
	"media": {}, "omitted": {}, "image": {}, "video": {}, "sticker": {},
	"message": {}, "deleted": {}, "null": {},
	"the": {}, "and": {}, "is": {}, "a": {}, "of": {}, "to": {},
}

// IsStopword reports whether the lowercased token is a stopword.
func IsStopword(word string) bool {
	_, ok := Stopwords[word]
	return ok
}

// Words lowercases text and returns its maximal runs of word characters
// (letters, combining marks, numbers, underscore) at least three runes long.
func Words(text string) []string {
	var words []string
	start := -1
	lower := strings.ToLower(text)

	flush := func(end int) {
		if start >= 0 && utf8.RuneCountInString(lower[start:end]) >= minWordRunes {
			words = append(words, lower[start:end])
		}
		start = -1
	}

	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lower))
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) || r == '_'
}

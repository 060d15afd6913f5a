// Package sentiment scores the polarity of short chat messages with a
// keyword lexicon.
package sentiment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Score returns the polarity of text in [-1, 1]; 0 means neutral or unknown.
// It is the mean value of the polar words and phrases found, where a word
// directly after a negation is flipped and halved and an intensifier scales
// the word that follows it. Exclamation marks amplify the result slightly.
func Score(text string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0
	}

	var sum float64
	var hits int

	modifier := 1.0
	for _, tok := range tokenize(normalized) {
		if _, ok := negations[tok]; ok {
			modifier *= -0.5
			continue
		}
		if m, ok := intensifiers[tok]; ok {
			modifier *= m
			continue
		}
		if v, ok := wordValues[tok]; ok {
			sum += v * modifier
			hits++
		}
		modifier = 1.0
	}

	for _, p := range phrases {
		if n := countPhrase(normalized, p.text); n > 0 {
			sum += p.value * float64(n)
			hits += n
		}
	}

	if hits == 0 {
		return 0
	}

	score := sum / float64(hits)
	if excl := strings.Count(text, "!"); excl > 0 {
		score *= 1 + 0.1*float64(min(excl, 3))
	}
	return clamp(score)
}

// countPhrase counts non-overlapping occurrences of p in s. An ASCII word
// character at either end of p must not touch another token character, so
// "for you" does not match inside "for your".
func countPhrase(s, p string) int {
	n := 0
	for i := 0; i+len(p) <= len(s); {
		j := strings.Index(s[i:], p)
		if j < 0 {
			break
		}
		start, end := i+j, i+j+len(p)
		if onBoundary(s, p, start, end) {
			n++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}
	return n
}

func onBoundary(s, p string, start, end int) bool {
	if first, _ := utf8.DecodeRuneInString(p); isWordEdge(first) && start > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(s[:start]); isTokenRune(prev) {
			return false
		}
	}
	if last, _ := utf8.DecodeLastRuneInString(p); isWordEdge(last) && end < len(s) {
		if next, _ := utf8.DecodeRuneInString(s[end:]); isTokenRune(next) {
			return false
		}
	}
	return true
}

func isWordEdge(r rune) bool {
	return r <= unicode.MaxASCII && isTokenRune(r)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !isTokenRune(r) })
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\''
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

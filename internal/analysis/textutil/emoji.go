package textutil

import (
	"strings"

	"github.com/forPelevin/gomoji"
)

// emojiRunes holds every code point that is an emoji on its own, taken from
// the gomoji data set with presentation selectors stripped. Sequences are not
// reassembled: a ZWJ family counts as its component pictographs, while flags
// and keycaps contribute nothing.
var emojiRunes = buildEmojiRunes()

func buildEmojiRunes() map[rune]struct{} {
	strip := strings.NewReplacer("\ufe0f", "", "\ufe0e", "")
	set := make(map[rune]struct{})
	for _, e := range gomoji.AllEmojis() {
		runes := []rune(strip.Replace(e.Character))
		if len(runes) == 1 {
			set[runes[0]] = struct{}{}
		}
	}
	// skin tone modifiers count on their own
	for r := rune(0x1f3fb); r <= 0x1f3ff; r++ {
		set[r] = struct{}{}
	}
	return set
}

// IsEmoji reports whether r is an emoji code point.
func IsEmoji(r rune) bool {
	_, ok := emojiRunes[r]
	return ok
}

// ExtractEmojis returns every emoji code point in text, one entry per
// occurrence, in order.
func ExtractEmojis(text string) []string {
	var out []string
	for _, r := range text {
		if IsEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

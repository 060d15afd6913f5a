package metrics

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

const signatureEmojis = 5

// emojiCounter tallies emoji keeping first-seen order for ties.
type emojiCounter struct {
	index  map[string]int
	counts []EmojiCount
}

func newEmojiCounter() *emojiCounter {
	return &emojiCounter{index: make(map[string]int)}
}

func (c *emojiCounter) add(emojis ...string) {
	for _, e := range emojis {
		pos, ok := c.index[e]
		if !ok {
			pos = len(c.counts)
			c.index[e] = pos
			c.counts = append(c.counts, EmojiCount{Emoji: e})
		}
		c.counts[pos].Count++
	}
}

func (c *emojiCounter) mostCommon(n int) []EmojiCount {
	out := append([]EmojiCount(nil), c.counts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out = truncate(out, n); out == nil {
		return []EmojiCount{}
	}
	return out
}

// Emojis reports emoji usage: totals for the limit most active authors, the
// limit most used emoji overall and each top author's five favourites.
func (a *Analyzer) Emojis(limit int) Emojis {
	top, ranking := a.topAuthors(limit)

	global := newEmojiCounter()
	perAuthor := make(map[string]*emojiCounter, len(ranking))
	users := newTally()
	total := 0
	for i, emojis := range a.emojis {
		total += len(emojis)
		global.add(emojis...)

		name := a.names[i]
		if _, ok := top[name]; !ok {
			continue
		}
		users.add(name, len(emojis))
		c, ok := perAuthor[name]
		if !ok {
			c = newEmojiCounter()
			perAuthor[name] = c
		}
		c.add(emojis...)
	}

	e := Emojis{
		TopUsers:        []EmojiUser{},
		TopEmojis:       global.mostCommon(limit),
		AuthorSummaries: []AuthorEmojis{},
		TotalEmojis:     total,
	}
	for _, nc := range users.ranked() {
		e.TopUsers = append(e.TopUsers, EmojiUser{Name: nc.name, EmojiCount: nc.count})
	}
	for _, nc := range ranking {
		c := perAuthor[nc.name]
		if c == nil || len(c.counts) == 0 {
			continue
		}
		favourites := c.mostCommon(signatureEmojis)
		e.AuthorSummaries = append(e.AuthorSummaries, AuthorEmojis{
			Name:         nc.name,
			TopEmojis:    favourites,
			PrimaryEmoji: favourites[0].Emoji,
		})
	}
	if len(e.TopUsers) > 0 {
		champ := e.TopUsers[0]
		e.Insight = fmt.Sprintf("%s is the emoji champion with %s emojis used! 👑",
			champ.Name, humanize.Comma(int64(champ.EmojiCount)))
	}
	return e
}

package metrics

import (
	"fmt"
	"math"
)

const previewRunes = 200

// MessageLength ranks the limit most active authors by mean message length
// in characters and reports the longest message overall.
func (a *Analyzer) MessageLength(limit int) MessageLength {
	top, _ := a.topAuthors(limit)

	acc := newAccumulator()
	longest := -1
	for i, n := range a.lengths {
		if _, ok := top[a.names[i]]; ok {
			acc.add(a.names[i], float64(n))
		}
		if longest < 0 || n > a.lengths[longest] {
			longest = i
		}
	}

	ml := MessageLength{Data: []AuthorLength{}}
	ranked := sortDesc(acc.means())
	for _, nv := range ranked {
		ml.Data = append(ml.Data, AuthorLength{Name: nv.name, AvgLength: round1(nv.value)})
	}
	if longest >= 0 {
		ml.LongestMessage = &LongestMessage{
			Author:  a.names[longest],
			Length:  a.lengths[longest],
			Preview: preview(a.messages[longest].Body),
		}
	}
	if len(ranked) > 0 {
		ml.Insight = fmt.Sprintf("%s writes essays with an average of %.0f characters per message! 📚",
			ranked[0].name, math.Round(ranked[0].value))
	}
	return ml
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewRunes {
		return body
	}
	return string(runes[:previewRunes]) + "..."
}

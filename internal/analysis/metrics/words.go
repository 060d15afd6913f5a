package metrics

import (
	"sort"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/textutil"
)

// DefaultWordLimit is the word cloud size used when callers have no preference.
const DefaultWordLimit = 100

const wordCloudInsight = "This cloud shows the most common topics discussed. Bigger words were mentioned more often!"

// WordFrequency counts lowercase words of three or more characters across all
// messages, skipping stopwords, and returns the limit most frequent. Equal
// counts keep first-seen order.
func (a *Analyzer) WordFrequency(limit int) WordFrequency {
	index := make(map[string]int)
	var counts []WordCount
	for _, m := range a.messages {
		for _, w := range textutil.Words(m.Body) {
			if textutil.IsStopword(w) {
				continue
			}
			pos, ok := index[w]
			if !ok {
				pos = len(counts)
				index[w] = pos
				counts = append(counts, WordCount{Text: w})
			}
			counts[pos].Value++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Value > counts[j].Value })

	wf := WordFrequency{Data: truncate(counts, limit), Insight: wordCloudInsight}
	if wf.Data == nil {
		wf.Data = []WordCount{}
	}
	return wf
}

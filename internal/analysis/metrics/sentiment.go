package metrics

import "fmt"

// Sentiment ranks the limit most active authors by mean polarity, scaled to
// -100..100. Media placeholders count as neutral messages.
func (a *Analyzer) Sentiment(limit int) Sentiment {
	scores := a.sentimentColumn()
	top, _ := a.topAuthors(limit)

	acc := newAccumulator()
	var total float64
	for i, score := range scores {
		total += score
		if _, ok := top[a.names[i]]; ok {
			acc.add(a.names[i], score)
		}
	}

	ranked := sortDesc(acc.means())
	s := Sentiment{Data: make([]AuthorSentiment, 0, len(ranked))}
	if len(scores) > 0 {
		s.AverageSentiment = round1(total / float64(len(scores)) * 100)
	}
	for _, nv := range ranked {
		category := "negative"
		if nv.value > 0 {
			category = "positive"
		}
		s.Data = append(s.Data, AuthorSentiment{
			Name:      nv.name,
			Sentiment: round1(nv.value * 100),
			Category:  category,
		})
	}
	if len(ranked) > 0 {
		s.MostPositive = strPtr(ranked[0].name)
		s.Insight = fmt.Sprintf("%s brings the most positive energy with a %.1f%% vibe score! 🌟 "+
			"Positive scores mean upbeat messages, negative ones lean critical or sarcastic.",
			ranked[0].name, s.Data[0].Sentiment)
	}
	return s
}

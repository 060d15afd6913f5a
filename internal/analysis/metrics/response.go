package metrics

import "fmt"

// replyWindowMinutes is the largest gap (exclusive) that still counts as a reply.
const replyWindowMinutes = 720

const noRepliesInsight = "Not enough conversation data to calculate response times."

type reply struct {
	index   int
	minutes float64
}

// replies returns every message whose author differs from the previous
// message's author and that arrived within the reply window.
func (a *Analyzer) replies() []reply {
	var out []reply
	for i := 1; i < len(a.messages); i++ {
		if a.names[i] == a.names[i-1] {
			continue
		}
		gap := a.messages[i].Timestamp.Sub(a.messages[i-1].Timestamp).Minutes()
		if gap > 0 && gap < replyWindowMinutes {
			out = append(out, reply{index: i, minutes: gap})
		}
	}
	return out
}

// replyMeans returns mean reply gaps for the authors in set, by name.
func (a *Analyzer) replyMeans(replies []reply, set map[string]struct{}) *accumulator {
	acc := newAccumulator()
	for _, r := range replies {
		name := a.names[r.index]
		if _, ok := set[name]; ok {
			acc.add(name, r.minutes)
		}
	}
	return acc
}

// ResponseTime ranks the limit most active authors by mean reply gap,
// fastest first. Without qualifying replies the result is empty.
func (a *Analyzer) ResponseTime(limit int) ResponseTime {
	rt := ResponseTime{Data: []AuthorResponse{}, Insight: noRepliesInsight}

	replies := a.replies()
	top, _ := a.topAuthors(limit)
	acc := a.replyMeans(replies, top)
	if acc.empty() {
		return rt
	}

	var sum float64
	var n int
	for _, r := range replies {
		if _, ok := top[a.names[r.index]]; ok {
			sum += r.minutes
			n++
		}
	}
	avg := round1(sum / float64(n))
	rt.AverageResponseTime = &avg

	ranked := sortAsc(acc.means())
	for _, nv := range ranked {
		rt.Data = append(rt.Data, AuthorResponse{Name: nv.name, ResponseTime: round1(nv.value)})
	}
	rt.FastestResponder = strPtr(ranked[0].name)
	rt.Insight = fmt.Sprintf("%s is the speed demon, replying in an average of %.1f minutes! 🏃💨",
		ranked[0].name, rt.Data[0].ResponseTime)
	return rt
}

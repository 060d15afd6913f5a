package metrics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Volume ranks the limit most active authors. TotalMessages and the
// insight percentage always use the full message count.
func (a *Analyzer) Volume(limit int) Volume {
	total := len(a.messages)
	_, ranking := a.topAuthors(limit)

	v := Volume{
		Data:          make([]AuthorMessages, 0, len(ranking)),
		TotalMessages: total,
	}
	for _, nc := range ranking {
		v.Data = append(v.Data, AuthorMessages{Name: nc.name, Messages: nc.count})
	}
	if len(ranking) > 0 {
		top := ranking[0]
		v.TopContributor = strPtr(top.name)
		v.Insight = fmt.Sprintf("%s is the most active with %s messages! That's %.1f%% of all messages.",
			top.name, humanize.Comma(int64(top.count)), percentage(top.count, total))
	}
	return v
}

// Leaderboard ranks the limit most active authors with 1-based ranks.
func (a *Analyzer) Leaderboard(limit int) Leaderboard {
	total := len(a.messages)
	_, ranking := a.topAuthors(limit)

	lb := Leaderboard{Data: make([]LeaderboardEntry, 0, len(ranking))}
	for i, nc := range ranking {
		lb.Data = append(lb.Data, LeaderboardEntry{
			Rank:       i + 1,
			Name:       nc.name,
			Messages:   nc.count,
			Percentage: percentage(nc.count, total),
		})
	}
	return lb
}

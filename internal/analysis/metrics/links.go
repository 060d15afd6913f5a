package metrics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const noLinksInsight = "No links shared in this chat!"

// Links ranks the limit most active authors by messages containing a link.
func (a *Analyzer) Links(limit int) Links {
	top, _ := a.topAuthors(limit)

	sharers := newTally()
	total := 0
	for i, hasLink := range a.links {
		n := 0
		if hasLink {
			n = 1
			total++
		}
		if _, ok := top[a.names[i]]; ok {
			sharers.add(a.names[i], n)
		}
	}

	l := Links{Data: []AuthorLinks{}, TotalLinks: total, Insight: noLinksInsight}
	for _, nc := range sharers.ranked() {
		l.Data = append(l.Data, AuthorLinks{Name: nc.name, Links: nc.count})
	}
	if len(l.Data) > 0 && l.Data[0].Links > 0 {
		l.TopSharer = strPtr(l.Data[0].Name)
		l.Insight = fmt.Sprintf("%s is the group's news source with %s links shared! 📰",
			l.Data[0].Name, humanize.Comma(int64(l.Data[0].Links)))
	}
	return l
}

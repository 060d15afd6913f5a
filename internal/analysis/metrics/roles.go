package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	silenceGap    = 3 * time.Hour
	rolesTopN     = 10
	monologueTopN = 10

	// DefaultMonologueRun is the shortest run counted as a monologue.
	DefaultMonologueRun = 3
)

const noMonologuesInsight = "No monologues detected! Everyone's pretty balanced."

func toAuthorCounts(ranking []nameCount) []AuthorCount {
	out := make([]AuthorCount, 0, len(ranking))
	for _, nc := range ranking {
		out = append(out, AuthorCount{Name: nc.name, Count: nc.count})
	}
	return out
}

// ConversationRoles counts who speaks first after a silence of more than
// three hours and who speaks last before one.
func (a *Analyzer) ConversationRoles() ConversationRoles {
	n := len(a.messages)
	starters := truncate(a.countBy(func(i int) bool {
		return i > 0 && a.messages[i].Timestamp.Sub(a.messages[i-1].Timestamp) > silenceGap
	}), rolesTopN)
	enders := truncate(a.countBy(func(i int) bool {
		return i < n-1 && a.messages[i+1].Timestamp.Sub(a.messages[i].Timestamp) > silenceGap
	}), rolesTopN)

	r := ConversationRoles{
		Starters: toAuthorCounts(starters),
		Enders:   toAuthorCounts(enders),
	}
	var parts []string
	if len(starters) > 0 {
		r.TopStarter = strPtr(starters[0].name)
		parts = append(parts, fmt.Sprintf("%s is the conversation igniter, breaking %s silences! 🔥",
			starters[0].name, humanize.Comma(int64(starters[0].count))))
	}
	if len(enders) > 0 {
		r.TopEnder = strPtr(enders[0].name)
		parts = append(parts, fmt.Sprintf("%s has the last word %s times... conversation killer or mic drop master? 🎤",
			enders[0].name, humanize.Comma(int64(enders[0].count))))
	}
	r.Insight = strings.Join(parts, " ")
	return r
}

// Monologues sums, per author, the lengths of maximal same-author runs of at
// least minRun messages. Shorter runs do not count at all. Equal totals keep
// the order in which authors first completed a qualifying run.
func (a *Analyzer) Monologues(minRun int) Monologues {
	if minRun < 1 {
		minRun = DefaultMonologueRun
	}

	index := make(map[string]int)
	var totals []nameCount
	flush := func(name string, run int) {
		if run < minRun {
			return
		}
		pos, ok := index[name]
		if !ok {
			pos = len(totals)
			index[name] = pos
			totals = append(totals, nameCount{name: name})
		}
		totals[pos].count += run
	}

	run := 0
	for i, name := range a.names {
		if i > 0 && name != a.names[i-1] {
			flush(a.names[i-1], run)
			run = 0
		}
		run++
	}
	if run > 0 {
		flush(a.names[len(a.names)-1], run)
	}

	m := Monologues{Data: []AuthorMonologue{}, Insight: noMonologuesInsight}
	if len(totals) == 0 {
		return m
	}
	sortCountsDesc(totals)
	for _, nc := range truncate(totals, monologueTopN) {
		m.Data = append(m.Data, AuthorMonologue{Name: nc.name, ConsecutiveMessages: nc.count})
	}
	m.TopMonologuer = strPtr(totals[0].name)
	m.Insight = fmt.Sprintf("%s loves to send multiple messages in a row! Total: %s consecutive messages. 📱💨",
		totals[0].name, humanize.Comma(int64(totals[0].count)))
	return m
}

// Package metrics computes the chat statistics served by the API and the CLI.
//
// An Analyzer is built once per transcript and is immutable afterwards; every
// method recomputes what it needs from the precomputed per-message columns and
// may be called concurrently.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/textutil"
	"github.com/zhouzirui/chat-vibes/backend/internal/model/chat"
)

// Analyzer is the message store. Messages are kept in timestamp order;
// messages sharing a timestamp keep their transcript order.
type Analyzer struct {
	messages []chat.Message

	names    []string
	lengths  []int
	emojis   [][]string
	media    []bool
	links    []bool
	hours    []int
	weekdays []time.Weekday

	sentimentOnce sync.Once
	sentiments    []float64
}

// New builds an Analyzer over messages. The input slice is not modified.
func New(messages []chat.Message) *Analyzer {
	sorted := make([]chat.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	n := len(sorted)
	a := &Analyzer{
		messages: sorted,
		names:    make([]string, n),
		lengths:  make([]int, n),
		emojis:   make([][]string, n),
		media:    make([]bool, n),
		links:    make([]bool, n),
		hours:    make([]int, n),
		weekdays: make([]time.Weekday, n),
	}
	names := make(map[string]string)
	for i, m := range sorted {
		name, ok := names[m.Author]
		if !ok {
			name = textutil.CleanName(m.Author)
			names[m.Author] = name
		}
		a.names[i] = name
		a.lengths[i] = len([]rune(m.Body))
		a.emojis[i] = textutil.ExtractEmojis(m.Body)
		a.media[i] = textutil.IsMedia(m.Body)
		a.links[i] = textutil.HasLink(m.Body)
		a.hours[i] = m.Timestamp.Hour()
		a.weekdays[i] = m.Timestamp.Weekday()
	}
	return a
}

// Len returns the number of messages in the store.
func (a *Analyzer) Len() int {
	return len(a.messages)
}

// Messages returns a copy of the stored messages in timestamp order.
func (a *Analyzer) Messages() []chat.Message {
	return append([]chat.Message(nil), a.messages...)
}

// Participants returns the distinct normalized author names in order of
// first appearance.
func (a *Analyzer) Participants() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, name := range a.names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Span returns the first and last timestamps; both are zero for an empty store.
func (a *Analyzer) Span() (start, end time.Time) {
	if len(a.messages) == 0 {
		return time.Time{}, time.Time{}
	}
	return a.messages[0].Timestamp, a.messages[len(a.messages)-1].Timestamp
}

// sentimentColumn scores every message once; media placeholders score 0.
func (a *Analyzer) sentimentColumn() []float64 {
	a.sentimentOnce.Do(func() {
		a.sentiments = make([]float64, len(a.messages))
		for i, m := range a.messages {
			if a.media[i] {
				continue
			}
			a.sentiments[i] = sentiment.Score(m.Body)
		}
	})
	return a.sentiments
}

type nameCount struct {
	name  string
	count int
}

// tally counts per author in first-seen order.
type tally struct {
	index  map[string]int
	counts []nameCount
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(name string, n int) {
	pos, ok := t.index[name]
	if !ok {
		pos = len(t.counts)
		t.index[name] = pos
		t.counts = append(t.counts, nameCount{name: name})
	}
	t.counts[pos].count += n
}

// ranked sorts descending; equal counts keep first-seen order.
func (t *tally) ranked() []nameCount {
	sortCountsDesc(t.counts)
	return t.counts
}

// countBy counts messages per normalized name, optionally filtered, and sorts
// descending. Equal counts keep first-encountered order.
func (a *Analyzer) countBy(include func(i int) bool) []nameCount {
	t := newTally()
	for i, name := range a.names {
		if include != nil && !include(i) {
			continue
		}
		t.add(name, 1)
	}
	return t.ranked()
}

func sortCountsDesc(counts []nameCount) {
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
}

// topAuthors returns the limit most active authors as a set plus their
// ranking. A non-positive limit yields no authors.
func (a *Analyzer) topAuthors(limit int) (map[string]struct{}, []nameCount) {
	ranking := truncate(a.countBy(nil), limit)
	set := make(map[string]struct{}, len(ranking))
	for _, nc := range ranking {
		set[nc.name] = struct{}{}
	}
	return set, ranking
}

type nameValue struct {
	name  string
	value float64
}

// accumulator groups float samples per author for means.
type accumulator struct {
	sums   map[string]float64
	counts map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{sums: make(map[string]float64), counts: make(map[string]int)}
}

func (acc *accumulator) add(name string, v float64) {
	acc.sums[name] += v
	acc.counts[name]++
}

func (acc *accumulator) empty() bool {
	return len(acc.counts) == 0
}

// means returns per-author means ordered by name.
func (acc *accumulator) means() []nameValue {
	out := make([]nameValue, 0, len(acc.counts))
	for name, n := range acc.counts {
		out = append(out, nameValue{name: name, value: acc.sums[name] / float64(n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// sortDesc and sortAsc are stable over the name order produced above, so
// equal values rank alphabetically.
func sortDesc(values []nameValue) []nameValue {
	sort.SliceStable(values, func(i, j int) bool { return values[i].value > values[j].value })
	return values
}

func sortAsc(values []nameValue) []nameValue {
	sort.SliceStable(values, func(i, j int) bool { return values[i].value < values[j].value })
	return values
}

func truncate[T any](s []T, limit int) []T {
	if limit <= 0 {
		return nil
	}
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func strPtr(s string) *string {
	return &s
}

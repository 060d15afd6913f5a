package metrics

import "fmt"

// Badges awarded by Achievements.
const (
	BadgeNightOwl   = "🦉 Night Owl"
	BadgeEarlyBird  = "🐦 Early Bird"
	BadgeComedian   = "😂 Comedian"
	BadgeLightning  = "⚡ Lightning"
	BadgeChatterbox = "💬 Chatterbox"
	BadgeProfessor  = "\U0001F468\u200d\U0001F3EB Professor"
)

// achievementPool is how many of the most active authors compete for the
// ratio based badges.
const achievementPool = 10

type badgeBoard struct {
	order  []string
	badges map[string][]string
}

func (b *badgeBoard) award(name, badge string) {
	if _, ok := b.badges[name]; !ok {
		b.order = append(b.order, name)
	}
	b.badges[name] = append(b.badges[name], badge)
}

func (a *Analyzer) hourWinner(from, to int) (string, bool) {
	ranking := a.countBy(func(i int) bool { return a.hours[i] >= from && a.hours[i] <= to })
	if len(ranking) == 0 {
		return "", false
	}
	return ranking[0].name, true
}

// Achievements awards one winner per badge. Night Owl covers hours 0-5 and
// Early Bird hours 5-7, so hour 5 counts toward both. Comedian, Lightning and
// Professor are decided among the ten most active authors; Chatterbox among
// everyone. Badges whose population is empty are not awarded.
func (a *Analyzer) Achievements() Achievements {
	board := &badgeBoard{badges: make(map[string][]string)}
	result := Achievements{Achievements: []Achievement{}}
	if len(a.messages) == 0 {
		return result
	}

	if name, ok := a.hourWinner(0, 5); ok {
		board.award(name, BadgeNightOwl)
	}
	if name, ok := a.hourWinner(5, 7); ok {
		board.award(name, BadgeEarlyBird)
	}

	pool, _ := a.topAuthors(achievementPool)
	ratios := newAccumulator()
	lengths := newAccumulator()
	for i, name := range a.names {
		if _, ok := pool[name]; !ok {
			continue
		}
		ratios.add(name, float64(len(a.emojis[i]))/float64(a.lengths[i]+1))
		lengths.add(name, float64(a.lengths[i]))
	}
	if !ratios.empty() {
		board.award(sortDesc(ratios.means())[0].name, BadgeComedian)
	}

	lightning := "everyone"
	if speeds := a.replyMeans(a.replies(), pool); !speeds.empty() {
		lightning = sortAsc(speeds.means())[0].name
		board.award(lightning, BadgeLightning)
	}

	chatterbox := a.countBy(nil)[0].name
	board.award(chatterbox, BadgeChatterbox)

	if !lengths.empty() {
		board.award(sortDesc(lengths.means())[0].name, BadgeProfessor)
	}

	for _, name := range board.order {
		result.Achievements = append(result.Achievements, Achievement{Name: name, Badges: board.badges[name]})
	}
	result.Insight = fmt.Sprintf("%s is the primary chatterbox, but watch out for %s's response speed!",
		chatterbox, lightning)
	return result
}

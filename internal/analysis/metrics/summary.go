package metrics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Summary returns the executive overview. TotalDays is at least 1.
func (a *Analyzer) Summary() Summary {
	total := len(a.messages)
	s := Summary{
		TotalMessages: total,
		TotalDays:     1,
		KeyInsights:   []string{},
	}
	if total == 0 {
		return s
	}

	start, end := a.Span()
	s.StartDate, s.EndDate = LocalTime{start}, LocalTime{end}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	s.TotalDays = days
	s.MessagesPerDay = round1(float64(total) / float64(days))

	ranking := a.countBy(nil)
	s.UniqueParticipants = len(ranking)
	top := ranking[0]
	s.TopContributor = &Contributor{
		Name:       top.name,
		Messages:   top.count,
		Percentage: percentage(top.count, total),
	}

	hourly := a.hourCounts()
	s.PeakHour = peakIndex(hourly[:])
	weekly := a.weekdayCounts()
	s.BusiestDay = weekdayNames[peakIndex(weekly[:])]

	s.KeyInsights = []string{
		fmt.Sprintf("🏆 %s dominated the chat with %s messages (%.1f%%)",
			top.name, humanize.Comma(int64(top.count)), s.TopContributor.Percentage),
		fmt.Sprintf("⏰ Activity peaks around %02d:00, prime chatting time!", s.PeakHour),
		fmt.Sprintf("📅 %s is when things get wild with the most messages 🎉", s.BusiestDay),
		fmt.Sprintf("📆 This chat lasted %d days, that's %.1f years of memories!",
			days, round1(float64(days)/365)),
	}
	return s
}

package metrics

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// weekdayNames is Monday-first; index with mondayIndex.
var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func (a *Analyzer) hourCounts() [24]int {
	var counts [24]int
	for _, h := range a.hours {
		counts[h]++
	}
	return counts
}

func (a *Analyzer) weekdayCounts() [7]int {
	var counts [7]int
	for _, d := range a.weekdays {
		counts[mondayIndex(d)]++
	}
	return counts
}

// peakIndex returns the index of the largest value; the lowest index wins ties.
func peakIndex(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

// HourlyActivity counts messages per hour of day.
func (a *Analyzer) HourlyActivity() HourlyActivity {
	counts := a.hourCounts()
	peak := peakIndex(counts[:])

	h := HourlyActivity{
		Data:          make([]HourMessages, 0, len(counts)),
		PeakHour:      peak,
		PeakHourLabel: fmt.Sprintf("%02d:00", peak),
		Insight:       fmt.Sprintf("Peak activity is at %02d:00! That's when this chat is most alive. 🔥", peak),
	}
	for hour, c := range counts {
		h.Data = append(h.Data, HourMessages{Hour: hour, Messages: c})
	}
	return h
}

// WeeklyActivity counts messages per weekday, Monday first.
func (a *Analyzer) WeeklyActivity() WeeklyActivity {
	counts := a.weekdayCounts()
	busiest := peakIndex(counts[:])

	w := WeeklyActivity{
		Data:       make([]DayMessages, 0, len(counts)),
		BusiestDay: weekdayNames[busiest],
		Insight: fmt.Sprintf("%s is the busiest day with %s messages! The chat goes wild on this day. 🎉",
			weekdayNames[busiest], humanize.Comma(int64(counts[busiest]))),
	}
	for i, c := range counts {
		w.Data = append(w.Data, DayMessages{Day: weekdayNames[i], Messages: c})
		if i >= 5 {
			w.WeekendVsWeekday.Weekend += c
		} else {
			w.WeekendVsWeekday.Weekday += c
		}
	}
	return w
}

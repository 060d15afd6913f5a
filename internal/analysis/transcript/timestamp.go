package transcript

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateOrder names the strategy used to read the day and month fields.
type DateOrder string

const (
	DayFirst   DateOrder = "day-first"
	MonthFirst DateOrder = "month-first"
	Mixed      DateOrder = "mixed"
)

// currentYear anchors two-digit years; replaced in tests.
var currentYear = func() int { return time.Now().Year() }

// normalizeDate converts "-" and "." separators to "/".
func normalizeDate(date string) string {
	return strings.NewReplacer("-", "/", ".", "/").Replace(date)
}

// parseStamp builds a timezone-naive timestamp (UTC location, no zone meaning)
// from a normalized "A/B/Y" date and an "H:MM[:SS][ AM/PM]" clock.
func parseStamp(date, clock string, order DateOrder) (time.Time, bool) {
	switch order {
	case DayFirst, MonthFirst:
		return parseStrict(date, clock, order)
	default:
		if ts, ok := parseStrict(date, clock, DayFirst); ok {
			return ts, true
		}
		return parseStrict(date, clock, MonthFirst)
	}
}

func parseStrict(date, clock string, order DateOrder) (time.Time, bool) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	day, month := first, second
	if order == MonthFirst {
		day, month = second, first
	}
	if len(parts[2]) <= 2 {
		year = expandYear(year, currentYear())
	}

	hour, minute, sec, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	if ts.Day() != day || int(ts.Month()) != month {
		// e.g. 31/02 rolled over into March
		return time.Time{}, false
	}
	return ts, true
}

// expandYear maps a two-digit year into the window of 50 years either side of now.
func expandYear(year, now int) int {
	year += now / 100 * 100
	if year >= now+50 {
		year -= 100
	} else if year < now-50 {
		year += 100
	}
	return year
}

func parseClock(clock string) (hour, minute, sec int, ok bool) {
	clock = strings.TrimFunc(clock, unicode.IsSpace)

	meridiem := ""
	if n := len(clock); n >= 2 {
		suffix := strings.ToLower(clock[n-2:])
		if suffix == "am" || suffix == "pm" {
			meridiem = suffix
			clock = strings.TrimRightFunc(clock[:n-2], unicode.IsSpace)
		}
	}

	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = v
	}
	hour, minute = nums[0], nums[1]
	if len(nums) == 3 {
		sec = nums[2]
	}

	switch meridiem {
	case "am", "pm":
		if hour > 12 {
			return 0, 0, 0, false
		}
		if meridiem == "pm" && hour < 12 {
			hour += 12
		} else if meridiem == "am" && hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 || sec > 59 {
		return 0, 0, 0, false
	}
	return hour, minute, sec, true
}

package metrics

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned by Compute for names outside Names.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric names accepted by Compute; they double as HTTP route suffixes.
const (
	MetricSummary           = "summary"
	MetricVolume            = "volume"
	MetricSentiment         = "sentiment"
	MetricResponseTime      = "response-time"
	MetricHourly            = "activity/hourly"
	MetricWeekly            = "activity/weekly"
	MetricEmojis            = "emojis"
	MetricLeaderboard       = "leaderboard"
	MetricMessageLength     = "message-length"
	MetricLinks             = "links"
	MetricAchievements      = "achievements"
	MetricConversationRoles = "conversation-roles"
	MetricMonologues        = "monologues"
	MetricWords             = "words"
)

// Names lists every metric in report order.
var Names = []string{
	MetricSummary,
	MetricVolume,
	MetricSentiment,
	MetricResponseTime,
	MetricHourly,
	MetricWeekly,
	MetricEmojis,
	MetricLeaderboard,
	MetricMessageLength,
	MetricLinks,
	MetricAchievements,
	MetricConversationRoles,
	MetricMonologues,
	MetricWords,
}

// LimitRange describes the accepted and default limit of a metric.
type LimitRange struct {
	Min, Max, Default int
}

// Contains reports whether limit lies within the range.
func (r LimitRange) Contains(limit int) bool {
	return limit >= r.Min && limit <= r.Max
}

var (
	defaultRange     = LimitRange{Min: 1, Max: 50, Default: 10}
	leaderboardRange = LimitRange{Min: 1, Max: 20, Default: 5}
	wordsRange       = LimitRange{Min: 10, Max: 500, Default: DefaultWordLimit}
)

// Limits returns the limit range of a metric and whether it takes a limit.
func Limits(name string) (LimitRange, bool) {
	switch name {
	case MetricVolume, MetricSentiment, MetricResponseTime, MetricEmojis, MetricMessageLength, MetricLinks:
		return defaultRange, true
	case MetricLeaderboard:
		return leaderboardRange, true
	case MetricWords:
		return wordsRange, true
	default:
		return LimitRange{}, false
	}
}

// Compute runs the named metric. A zero limit selects the metric's default;
// metrics without a limit ignore it.
func (a *Analyzer) Compute(name string, limit int) (any, error) {
	if r, ok := Limits(name); ok && limit == 0 {
		limit = r.Default
	}
	switch name {
	case MetricSummary:
		return a.Summary(), nil
	case MetricVolume:
		return a.Volume(limit), nil
	case MetricSentiment:
		return a.Sentiment(limit), nil
	case MetricResponseTime:
		return a.ResponseTime(limit), nil
	case MetricHourly:
		return a.HourlyActivity(), nil
	case MetricWeekly:
		return a.WeeklyActivity(), nil
	case MetricEmojis:
		return a.Emojis(limit), nil
	case MetricLeaderboard:
		return a.Leaderboard(limit), nil
	case MetricMessageLength:
		return a.MessageLength(limit), nil
	case MetricLinks:
		return a.Links(limit), nil
	case MetricAchievements:
		return a.Achievements(), nil
	case MetricConversationRoles:
		return a.ConversationRoles(), nil
	case MetricMonologues:
		return a.Monologues(DefaultMonologueRun), nil
	case MetricWords:
		return a.WordFrequency(limit), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

package metrics

import (
	"encoding/json"
	"time"
)

// LocalTimeLayout is ISO 8601 without a zone; transcript timestamps carry none.
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime marshals as LocalTimeLayout in JSON and YAML.
type LocalTime struct {
	time.Time
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(LocalTimeLayout))
}

func (t LocalTime) MarshalYAML() (any, error) {
	return t.Format(LocalTimeLayout), nil
}

// Contributor is an author with their share of all messages.
type Contributor struct {
	Name       string  `json:"name" yaml:"name"`
	Messages   int     `json:"messages" yaml:"messages"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Summary is the executive overview of a chat.
type Summary struct {
	StartDate          LocalTime    `json:"start_date" yaml:"start_date"`
	EndDate            LocalTime    `json:"end_date" yaml:"end_date"`
	TotalMessages      int          `json:"total_messages" yaml:"total_messages"`
	TotalDays          int          `json:"total_days" yaml:"total_days"`
	MessagesPerDay     float64      `json:"messages_per_day" yaml:"messages_per_day"`
	UniqueParticipants int          `json:"unique_participants" yaml:"unique_participants"`
	TopContributor     *Contributor `json:"top_contributor" yaml:"top_contributor"`
	PeakHour           int          `json:"peak_hour" yaml:"peak_hour"`
	BusiestDay         string       `json:"busiest_day" yaml:"busiest_day"`
	KeyInsights        []string     `json:"key_insights" yaml:"key_insights"`
}

// AuthorMessages is a per-author message count.
type AuthorMessages struct {
	Name     string `json:"name" yaml:"name"`
	Messages int    `json:"messages" yaml:"messages"`
}

// Volume ranks authors by message count.
type Volume struct {
	Data           []AuthorMessages `json:"data" yaml:"data"`
	TotalMessages  int              `json:"total_messages" yaml:"total_messages"`
	TopContributor *string          `json:"top_contributor" yaml:"top_contributor"`
	Insight        string           `json:"insight" yaml:"insight"`
}

// AuthorSentiment is an author's mean polarity scaled to -100..100.
type AuthorSentiment struct {
	Name      string  `json:"name" yaml:"name"`
	Sentiment float64 `json:"sentiment" yaml:"sentiment"`
	Category  string  `json:"category" yaml:"category"`
}

// Sentiment ranks the most active authors by positivity.
type Sentiment struct {
	Data             []AuthorSentiment `json:"data" yaml:"data"`
	MostPositive     *string           `json:"most_positive" yaml:"most_positive"`
	AverageSentiment float64           `json:"average_sentiment" yaml:"average_sentiment"`
	Insight          string            `json:"insight" yaml:"insight"`
}

// AuthorResponse is an author's mean reply gap in minutes.
type AuthorResponse struct {
	Name         string  `json:"name" yaml:"name"`
	ResponseTime float64 `json:"response_time" yaml:"response_time"`
}

// ResponseTime ranks authors by how fast they reply.
type ResponseTime struct {
	Data                []AuthorResponse `json:"data" yaml:"data"`
	FastestResponder    *string          `json:"fastest_responder" yaml:"fastest_responder"`
	AverageResponseTime *float64         `json:"average_response_time" yaml:"average_response_time"`
	Insight             string           `json:"insight" yaml:"insight"`
}

// HourMessages is the message count of one hour-of-day bucket.
type HourMessages struct {
	Hour     int `json:"hour" yaml:"hour"`
	Messages int `json:"messages" yaml:"messages"`
}

// HourlyActivity always holds 24 buckets.
type HourlyActivity struct {
	Data          []HourMessages `json:"data" yaml:"data"`
	PeakHour      int            `json:"peak_hour" yaml:"peak_hour"`
	PeakHourLabel string         `json:"peak_hour_label" yaml:"peak_hour_label"`
	Insight       string         `json:"insight" yaml:"insight"`
}

// DayMessages is the message count of one weekday.
type DayMessages struct {
	Day      string `json:"day" yaml:"day"`
	Messages int    `json:"messages" yaml:"messages"`
}

// WeekSplit compares Saturday+Sunday against Monday to Friday.
type WeekSplit struct {
	Weekend int `json:"weekend" yaml:"weekend"`
	Weekday int `json:"weekday" yaml:"weekday"`
}

// WeeklyActivity always holds 7 buckets, Monday first.
type WeeklyActivity struct {
	Data             []DayMessages `json:"data" yaml:"data"`
	BusiestDay       string        `json:"busiest_day" yaml:"busiest_day"`
	WeekendVsWeekday WeekSplit     `json:"weekend_vs_weekday" yaml:"weekend_vs_weekday"`
	Insight          string        `json:"insight" yaml:"insight"`
}

// EmojiUser is an author's total emoji count.
type EmojiUser struct {
	Name       string `json:"name" yaml:"name"`
	EmojiCount int    `json:"emoji_count" yaml:"emoji_count"`
}

// EmojiCount is the number of uses of one emoji.
type EmojiCount struct {
	Emoji string `json:"emoji" yaml:"emoji"`
	Count int    `json:"count" yaml:"count"`
}

// AuthorEmojis is an author's signature emoji.
type AuthorEmojis struct {
	Name         string       `json:"name" yaml:"name"`
	TopEmojis    []EmojiCount `json:"top_emojis" yaml:"top_emojis"`
	PrimaryEmoji string       `json:"primary_emoji" yaml:"primary_emoji"`
}

// Emojis describes emoji usage.
type Emojis struct {
	TopUsers        []EmojiUser    `json:"top_users" yaml:"top_users"`
	TopEmojis       []EmojiCount   `json:"top_emojis" yaml:"top_emojis"`
	AuthorSummaries []AuthorEmojis `json:"author_summaries" yaml:"author_summaries"`
	TotalEmojis     int            `json:"total_emojis" yaml:"total_emojis"`
	Insight         string         `json:"insight" yaml:"insight"`
}

// AuthorLength is an author's mean message length in characters.
type AuthorLength struct {
	Name      string  `json:"name" yaml:"name"`
	AvgLength float64 `json:"avg_length" yaml:"avg_length"`
}

// LongestMessage describes the single longest message.
type LongestMessage struct {
	Author  string `json:"author" yaml:"author"`
	Length  int    `json:"length" yaml:"length"`
	Preview string `json:"preview" yaml:"preview"`
}

// MessageLength ranks authors by verbosity.
type MessageLength struct {
	Data           []AuthorLength  `json:"data" yaml:"data"`
	LongestMessage *LongestMessage `json:"longest_message" yaml:"longest_message"`
	Insight        string          `json:"insight" yaml:"insight"`
}

// AuthorLinks is the number of an author's messages containing a link.
type AuthorLinks struct {
	Name  string `json:"name" yaml:"name"`
	Links int    `json:"links" yaml:"links"`
}

// Links ranks authors by shared links.
type Links struct {
	Data       []AuthorLinks `json:"data" yaml:"data"`
	TotalLinks int           `json:"total_links" yaml:"total_links"`
	TopSharer  *string       `json:"top_sharer" yaml:"top_sharer"`
	Insight    string        `json:"insight" yaml:"insight"`
}

// LeaderboardEntry is one ranked contributor.
type LeaderboardEntry struct {
	Rank       int     `json:"rank" yaml:"rank"`
	Name       string  `json:"name" yaml:"name"`
	Messages   int     `json:"messages" yaml:"messages"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Leaderboard lists the top contributors.
type Leaderboard struct {
	Data []LeaderboardEntry `json:"data" yaml:"data"`
}

// AuthorCount is a generic per-author tally.
type AuthorCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// ConversationRoles counts who breaks and who ends long silences.
type ConversationRoles struct {
	Starters   []AuthorCount `json:"starters" yaml:"starters"`
	Enders     []AuthorCount `json:"enders" yaml:"enders"`
	TopStarter *string       `json:"top_starter" yaml:"top_starter"`
	TopEnder   *string       `json:"top_ender" yaml:"top_ender"`
	Insight    string        `json:"insight" yaml:"insight"`
}

// AuthorMonologue is the total length of an author's qualifying runs.
type AuthorMonologue struct {
	Name                string `json:"name" yaml:"name"`
	ConsecutiveMessages int    `json:"consecutive_messages" yaml:"consecutive_messages"`
}

// Monologues ranks authors by messages sent in long uninterrupted runs.
type Monologues struct {
	Data          []AuthorMonologue `json:"data" yaml:"data"`
	TopMonologuer *string           `json:"top_monologuer" yaml:"top_monologuer"`
	Insight       string            `json:"insight" yaml:"insight"`
}

// Achievement lists the badges won by one author, in award order.
type Achievement struct {
	Name   string   `json:"name" yaml:"name"`
	Badges []string `json:"badges" yaml:"badges"`
}

// Achievements is the badge table.
type Achievements struct {
	Achievements []Achievement `json:"achievements" yaml:"achievements"`
	Insight      string        `json:"insight" yaml:"insight"`
}

// WordCount is one word cloud entry.
type WordCount struct {
	Text  string `json:"text" yaml:"text"`
	Value int    `json:"value" yaml:"value"`
}

// WordFrequency feeds a word cloud.
type WordFrequency struct {
	Data    []WordCount `json:"data" yaml:"data"`
	Insight string      `json:"insight" yaml:"insight"`
}

// Pair holds a user's value next to the group reference value.
type Pair struct {
	User     float64 `json:"user" yaml:"user"`
	GroupAvg float64 `json:"group_avg" yaml:"group_avg"`
}

// Comparison sets one user against the group.
type Comparison struct {
	UserName         string `json:"user_name" yaml:"user_name"`
	Messages         Pair   `json:"messages" yaml:"messages"`
	AvgMessageLength Pair   `json:"avg_message_length" yaml:"avg_message_length"`
	ResponseTime     Pair   `json:"response_time" yaml:"response_time"`
	Positivity       Pair   `json:"positivity" yaml:"positivity"`
	Emojis           Pair   `json:"emojis" yaml:"emojis"`
}

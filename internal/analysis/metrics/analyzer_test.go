package metrics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/chat-vibes/backend/internal/model/chat"
)

// at parses "2006-01-02 15:04" in UTC; 2024-01-01 is a Monday.
func at(t *testing.T, stamp string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", stamp)
	require.NoError(t, err)
	return ts
}

func msg(t *testing.T, author, stamp, body string) chat.Message {
	t.Helper()
	return chat.Message{Author: author, Timestamp: at(t, stamp), Body: body}
}

// threeMessageChat is A says hi, B replies five minutes later and follows up.
func threeMessageChat(t *testing.T) *Analyzer {
	return New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "hi"),
		msg(t, "B", "2024-01-01 09:05", "hey"),
		msg(t, "B", "2024-01-01 09:06", "you there?"),
	})
}

func TestNew_StableTimestampOrder(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "Late", "2024-01-01 10:00", "3"),
		msg(t, "First", "2024-01-01 09:00", "1"),
		msg(t, "Second", "2024-01-01 09:00", "2"),
	})

	var bodies []string
	for _, m := range a.Messages() {
		bodies = append(bodies, m.Body)
	}
	assert.Equal(t, []string{"1", "2", "3"}, bodies)
	assert.Equal(t, []string{"First", "Second", "Late"}, a.Participants())
	assert.Equal(t, 3, a.Len())
}

func TestNew_GroupsByNormalizedName(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "~Alice ", "2024-01-01 09:00", "one"),
		msg(t, "Alice", "2024-01-01 09:01", "two"),
	})

	assert.Equal(t, []string{"Alice"}, a.Participants())
	assert.Equal(t, []AuthorMessages{{Name: "Alice", Messages: 2}}, a.Volume(10).Data)
}

func TestVolume_ScenarioAndPercentage(t *testing.T) {
	v := threeMessageChat(t).Volume(10)

	assert.Equal(t, []AuthorMessages{{Name: "B", Messages: 2}, {Name: "A", Messages: 1}}, v.Data)
	assert.Equal(t, 3, v.TotalMessages)
	require.NotNil(t, v.TopContributor)
	assert.Equal(t, "B", *v.TopContributor)

	truncated := threeMessageChat(t).Volume(1)
	assert.Len(t, truncated.Data, 1)
	assert.Equal(t, 3, truncated.TotalMessages)
	assert.Contains(t, truncated.Insight, "66.7%")
}

func TestVolume_NonPositiveLimit(t *testing.T) {
	v := threeMessageChat(t).Volume(0)

	assert.Empty(t, v.Data)
	assert.NotNil(t, v.Data)
	assert.Nil(t, v.TopContributor)
	assert.Equal(t, 3, v.TotalMessages)
}

func TestResponseTime_Scenario(t *testing.T) {
	rt := threeMessageChat(t).ResponseTime(10)

	assert.Equal(t, []AuthorResponse{{Name: "B", ResponseTime: 5.0}}, rt.Data)
	require.NotNil(t, rt.FastestResponder)
	assert.Equal(t, "B", *rt.FastestResponder)
	require.NotNil(t, rt.AverageResponseTime)
	assert.Equal(t, 5.0, *rt.AverageResponseTime)
}

func TestResponseTime_SingleAuthor(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "Solo", "2024-01-01 09:00", "talking"),
		msg(t, "Solo", "2024-01-01 09:01", "to myself"),
	})

	rt := a.ResponseTime(10)

	assert.Empty(t, rt.Data)
	assert.Nil(t, rt.FastestResponder)
	assert.Nil(t, rt.AverageResponseTime)
	assert.Equal(t, noRepliesInsight, rt.Insight)
}

func TestResponseTime_IgnoresLongAndZeroGaps(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "morning"),
		msg(t, "B", "2024-01-01 09:00", "same minute"),
		msg(t, "A", "2024-01-01 21:00", "twelve hours later"),
		msg(t, "B", "2024-01-01 21:10", "ten minutes"),
	})

	rt := a.ResponseTime(10)

	assert.Equal(t, []AuthorResponse{{Name: "B", ResponseTime: 10}}, rt.Data)
}

func TestMonologues_Scenario(t *testing.T) {
	authors := []string{"A", "A", "A", "B", "A", "A"}
	var messages []chat.Message
	for i, author := range authors {
		messages = append(messages, chat.Message{
			Author:    author,
			Timestamp: at(t, "2024-01-01 09:00").Add(time.Duration(i) * time.Minute),
			Body:      "x",
		})
	}

	m := New(messages).Monologues(DefaultMonologueRun)

	assert.Equal(t, []AuthorMonologue{{Name: "A", ConsecutiveMessages: 3}}, m.Data)
	require.NotNil(t, m.TopMonologuer)
	assert.Equal(t, "A", *m.TopMonologuer)
}

func TestMonologues_NoneDetected(t *testing.T) {
	m := threeMessageChat(t).Monologues(DefaultMonologueRun)

	assert.Empty(t, m.Data)
	assert.Nil(t, m.TopMonologuer)
	assert.Equal(t, noMonologuesInsight, m.Insight)
}

func TestActivity_ZeroFill(t *testing.T) {
	for _, a := range []*Analyzer{New(nil), threeMessageChat(t)} {
		h := a.HourlyActivity()
		w := a.WeeklyActivity()

		require.Len(t, h.Data, 24)
		require.Len(t, w.Data, 7)
		for i, entry := range h.Data {
			assert.Equal(t, i, entry.Hour)
		}
		assert.Equal(t, "Monday", w.Data[0].Day)
		assert.Equal(t, "Sunday", w.Data[6].Day)
	}
}

func TestActivity_TieBreaks(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-07 05:00", "sunday"),
		msg(t, "B", "2024-01-02 03:00", "tuesday"),
	})

	h := a.HourlyActivity()
	assert.Equal(t, 3, h.PeakHour)
	assert.Equal(t, "03:00", h.PeakHourLabel)

	w := a.WeeklyActivity()
	assert.Equal(t, "Tuesday", w.BusiestDay)
	assert.Equal(t, WeekSplit{Weekend: 1, Weekday: 1}, w.WeekendVsWeekday)
}

func TestSummary(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "hi"),
		msg(t, "B", "2024-01-03 10:00", "hello"),
		msg(t, "A", "2024-01-03 11:00", "back"),
	})

	s := a.Summary()

	assert.Equal(t, 3, s.TotalMessages)
	assert.Equal(t, 2, s.TotalDays)
	assert.Equal(t, 1.5, s.MessagesPerDay)
	assert.Equal(t, 2, s.UniqueParticipants)
	require.NotNil(t, s.TopContributor)
	assert.Equal(t, Contributor{Name: "A", Messages: 2, Percentage: 66.7}, *s.TopContributor)
	assert.Equal(t, 9, s.PeakHour)
	assert.Equal(t, "Wednesday", s.BusiestDay)
	require.Len(t, s.KeyInsights, 4)
	assert.Equal(t, "🏆 A dominated the chat with 2 messages (66.7%)", s.KeyInsights[0])
}

func TestSummary_DatesHaveNoZone(t *testing.T) {
	s := threeMessageChat(t).Summary()

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_date":"2024-01-01T09:00:00"`)
	assert.Contains(t, string(raw), `"end_date":"2024-01-01T09:06:00"`)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2024-01-01T09:00:00")
	assert.NotContains(t, string(out), "09:00:00Z")
}

func TestSummary_SpanFloorsAtOneDay(t *testing.T) {
	s := threeMessageChat(t).Summary()
	assert.Equal(t, 1, s.TotalDays)
	assert.Equal(t, 3.0, s.MessagesPerDay)

	empty := New(nil).Summary()
	assert.Equal(t, 1, empty.TotalDays)
	assert.Nil(t, empty.TopContributor)
	assert.Empty(t, empty.KeyInsights)
}

func TestSentiment(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "great day"),
		msg(t, "A", "2024-01-01 09:01", "image omitted"),
		msg(t, "B", "2024-01-01 09:02", "terrible"),
	})

	s := a.Sentiment(10)

	assert.Equal(t, []AuthorSentiment{
		{Name: "A", Sentiment: 40, Category: "positive"},
		{Name: "B", Sentiment: -60, Category: "negative"},
	}, s.Data)
	require.NotNil(t, s.MostPositive)
	assert.Equal(t, "A", *s.MostPositive)
	assert.Equal(t, 6.7, s.AverageSentiment)
}

func TestSentiment_ZeroIsNegative(t *testing.T) {
	s := New([]chat.Message{msg(t, "A", "2024-01-01 09:00", "ok")}).Sentiment(10)

	require.Len(t, s.Data, 1)
	assert.Equal(t, "negative", s.Data[0].Category)
}

func TestEmojis(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "😂😂 hi"),
		msg(t, "B", "2024-01-01 09:01", "👍"),
		msg(t, "A", "2024-01-01 09:02", "❤ yes"),
		msg(t, "C", "2024-01-01 09:03", "no emoji"),
	})

	e := a.Emojis(10)

	assert.Equal(t, []EmojiUser{{"A", 3}, {"B", 1}, {"C", 0}}, e.TopUsers)
	assert.Equal(t, []EmojiCount{{"😂", 2}, {"👍", 1}, {"❤", 1}}, e.TopEmojis)
	assert.Equal(t, []AuthorEmojis{
		{Name: "A", TopEmojis: []EmojiCount{{"😂", 2}, {"❤", 1}}, PrimaryEmoji: "😂"},
		{Name: "B", TopEmojis: []EmojiCount{{"👍", 1}}, PrimaryEmoji: "👍"},
	}, e.AuthorSummaries)
	assert.Equal(t, 4, e.TotalEmojis)
	assert.Equal(t, "A is the emoji champion with 3 emojis used! 👑", e.Insight)
}

func TestMessageLength(t *testing.T) {
	long := strings.Repeat("x", 250)
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "short"),
		msg(t, "B", "2024-01-01 09:01", long),
		msg(t, "A", "2024-01-01 09:02", long),
	})

	ml := a.MessageLength(10)

	assert.Equal(t, []AuthorLength{{"B", 250}, {"A", 127.5}}, ml.Data)
	require.NotNil(t, ml.LongestMessage)
	assert.Equal(t, "B", ml.LongestMessage.Author)
	assert.Equal(t, 250, ml.LongestMessage.Length)
	assert.Equal(t, strings.Repeat("x", 200)+"...", ml.LongestMessage.Preview)

	assert.Nil(t, New(nil).MessageLength(10).LongestMessage)
}

func TestLinks(t *testing.T) {
	none := threeMessageChat(t).Links(10)
	assert.Equal(t, 0, none.TotalLinks)
	assert.Nil(t, none.TopSharer)
	assert.Equal(t, noLinksInsight, none.Insight)
	assert.Len(t, none.Data, 2)

	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "see https://x.io"),
		msg(t, "A", "2024-01-01 09:01", "or WWW.y.com"),
		msg(t, "B", "2024-01-01 09:02", "nope"),
	})
	l := a.Links(10)
	assert.Equal(t, []AuthorLinks{{"A", 2}, {"B", 0}}, l.Data)
	assert.Equal(t, 2, l.TotalLinks)
	require.NotNil(t, l.TopSharer)
	assert.Equal(t, "A", *l.TopSharer)
}

func TestCountRankings_TiesKeepFirstSeenOrder(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "Zed", "2024-01-01 09:00", "😂 https://z.io"),
		msg(t, "Amy", "2024-01-01 09:01", "👍 https://a.io"),
	})

	v := a.Volume(10)
	require.Len(t, v.Data, 2)
	assert.Equal(t, "Zed", v.Data[0].Name)
	assert.Equal(t, "Amy", v.Data[1].Name)

	l := a.Links(10)
	assert.Equal(t, []AuthorLinks{{"Zed", 1}, {"Amy", 1}}, l.Data)
	require.NotNil(t, l.TopSharer)
	assert.Equal(t, "Zed", *l.TopSharer)

	e := a.Emojis(10)
	assert.Equal(t, []EmojiUser{{"Zed", 1}, {"Amy", 1}}, e.TopUsers)
	assert.Equal(t, "Zed is the emoji champion with 1 emojis used! 👑", e.Insight)
}

func TestLeaderboard(t *testing.T) {
	lb := threeMessageChat(t).Leaderboard(5)

	assert.Equal(t, []LeaderboardEntry{
		{Rank: 1, Name: "B", Messages: 2, Percentage: 66.7},
		{Rank: 2, Name: "A", Messages: 1, Percentage: 33.3},
	}, lb.Data)
}

func TestConversationRoles(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "first"),
		msg(t, "B", "2024-01-01 09:05", "reply"),
		msg(t, "A", "2024-01-01 14:10", "after silence"),
		msg(t, "B", "2024-01-01 14:11", "reply"),
		msg(t, "B", "2024-01-01 18:12", "after another silence"),
	})

	r := a.ConversationRoles()

	assert.Equal(t, []AuthorCount{{"A", 1}, {"B", 1}}, r.Starters)
	assert.Equal(t, []AuthorCount{{"B", 2}}, r.Enders)
	require.NotNil(t, r.TopStarter)
	assert.Equal(t, "A", *r.TopStarter)
	require.NotNil(t, r.TopEnder)
	assert.Equal(t, "B", *r.TopEnder)
}

func TestConversationRoles_NoSilences(t *testing.T) {
	r := threeMessageChat(t).ConversationRoles()

	assert.Empty(t, r.Starters)
	assert.Empty(t, r.Enders)
	assert.Nil(t, r.TopStarter)
	assert.Equal(t, "", r.Insight)
}

func TestAchievements(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 02:00", "night msg"),
		msg(t, "A", "2024-01-01 03:00", "again"),
		msg(t, "B", "2024-01-01 06:00", "morning 😂"),
		msg(t, "A", "2024-01-01 06:30", "hi"),
		msg(t, "B", "2024-01-01 06:31", "long message here about things"),
	})

	got := a.Achievements()

	assert.Equal(t, []Achievement{
		{Name: "A", Badges: []string{BadgeNightOwl, BadgeLightning, BadgeChatterbox}},
		{Name: "B", Badges: []string{BadgeEarlyBird, BadgeComedian, BadgeProfessor}},
	}, got.Achievements)
	assert.Equal(t, "A is the primary chatterbox, but watch out for A's response speed!", got.Insight)
}

func TestAchievements_SingleAuthor(t *testing.T) {
	a := New([]chat.Message{msg(t, "Solo", "2024-01-01 12:00", "hello")})

	got := a.Achievements()

	require.Len(t, got.Achievements, 1)
	assert.Equal(t, []string{BadgeComedian, BadgeChatterbox, BadgeProfessor}, got.Achievements[0].Badges)
	assert.Contains(t, got.Insight, "everyone's response speed")
	assert.Empty(t, New(nil).Achievements().Achievements)
}

func TestAchievements_HourFiveCountsForBoth(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "Dawn", "2024-01-01 05:30", "up early"),
		msg(t, "Noon", "2024-01-01 12:00", "lunch"),
		msg(t, "Noon", "2024-01-01 12:30", "still lunch"),
	})

	got := a.Achievements()

	require.NotEmpty(t, got.Achievements)
	assert.Equal(t, "Dawn", got.Achievements[0].Name)
	assert.Equal(t, []string{BadgeNightOwl, BadgeEarlyBird}, got.Achievements[0].Badges[:2])
}

func TestAchievements_MeanTiesGoToFirstName(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "Zed", "2024-01-01 09:00", "hi"),
		msg(t, "Amy", "2024-01-01 09:05", "hi"),
		msg(t, "Zed", "2024-01-01 09:10", "hi"),
		msg(t, "Amy", "2024-01-01 09:15", "hi"),
	})

	got := a.Achievements()

	assert.Equal(t, []Achievement{
		{Name: "Amy", Badges: []string{BadgeComedian, BadgeLightning, BadgeProfessor}},
		{Name: "Zed", Badges: []string{BadgeChatterbox}},
	}, got.Achievements)
	assert.Equal(t, "Zed is the primary chatterbox, but watch out for Amy's response speed!", got.Insight)
}

func TestWordFrequency(t *testing.T) {
	a := New([]chat.Message{
		msg(t, "A", "2024-01-01 09:00", "hello world hello"),
		msg(t, "B", "2024-01-01 09:01", "The omitted image"),
		msg(t, "A", "2024-01-01 09:02", "World peace"),
	})

	assert.Equal(t, []WordCount{{"hello", 2}, {"world", 2}}, a.WordFrequency(2).Data)
	assert.Equal(t, []WordCount{{"hello", 2}, {"world", 2}, {"peace", 1}}, a.WordFrequency(DefaultWordLimit).Data)
	assert.Empty(t, a.WordFrequency(0).Data)
}

func TestCompare(t *testing.T) {
	c, ok := threeMessageChat(t).Compare(" B ")
	require.True(t, ok)

	assert.Equal(t, "B", c.UserName)
	assert.Equal(t, Pair{User: 2, GroupAvg: 1.5}, c.Messages)
	assert.Equal(t, Pair{User: 6.5, GroupAvg: 5}, c.AvgMessageLength)
	assert.Equal(t, Pair{User: 5, GroupAvg: 5}, c.ResponseTime)
	assert.Equal(t, Pair{User: 0, GroupAvg: 0}, c.Emojis)
}

func TestCompare_Miss(t *testing.T) {
	c, ok := threeMessageChat(t).Compare("NameNotInChat")

	assert.False(t, ok)
	assert.Nil(t, c)
}

func TestCompute(t *testing.T) {
	a := threeMessageChat(t)

	for _, name := range Names {
		out, err := a.Compute(name, 0)
		require.NoError(t, err, name)
		assert.NotNil(t, out, name)
	}

	out, err := a.Compute(MetricLeaderboard, 0)
	require.NoError(t, err)
	assert.Len(t, out.(Leaderboard).Data, 2)

	_, err = a.Compute("nope", 0)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestLimits(t *testing.T) {
	r, ok := Limits(MetricWords)
	require.True(t, ok)
	assert.False(t, r.Contains(9))
	assert.True(t, r.Contains(500))

	_, ok = Limits(MetricSummary)
	assert.False(t, ok)
}

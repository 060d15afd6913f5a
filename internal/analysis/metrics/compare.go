package metrics

import "github.com/zhouzirui/chat-vibes/backend/internal/analysis/textutil"

// Compare sets one user against the group. The user is matched by normalized
// name; ok is false when that name has no messages. Group references are
// per-author averages for message and emoji counts and whole-chat means for
// length, reply gap and positivity.
func (a *Analyzer) Compare(user string) (*Comparison, bool) {
	name := textutil.CleanName(user)

	authors := make(map[string]struct{})
	var userMsgs, userLen, userEmojis, totalLen, totalEmojis int
	var userSentiment, totalSentiment float64
	scores := a.sentimentColumn()
	for i, n := range a.names {
		authors[n] = struct{}{}
		totalLen += a.lengths[i]
		totalEmojis += len(a.emojis[i])
		totalSentiment += scores[i]
		if n != name {
			continue
		}
		userMsgs++
		userLen += a.lengths[i]
		userEmojis += len(a.emojis[i])
		userSentiment += scores[i]
	}
	if userMsgs == 0 {
		return nil, false
	}

	total := float64(len(a.messages))
	numAuthors := float64(len(authors))

	var userGap, groupGap float64
	var userReplies, groupReplies int
	for _, r := range a.replies() {
		groupGap += r.minutes
		groupReplies++
		if a.names[r.index] == name {
			userGap += r.minutes
			userReplies++
		}
	}

	c := &Comparison{
		UserName: name,
		Messages: Pair{
			User:     float64(userMsgs),
			GroupAvg: round1(total / numAuthors),
		},
		AvgMessageLength: Pair{
			User:     round1(float64(userLen) / float64(userMsgs)),
			GroupAvg: round1(float64(totalLen) / total),
		},
		ResponseTime: Pair{
			User:     round1(mean(userGap, userReplies)),
			GroupAvg: round1(mean(groupGap, groupReplies)),
		},
		Positivity: Pair{
			User:     round1(userSentiment / float64(userMsgs) * 100),
			GroupAvg: round1(totalSentiment / total * 100),
		},
		Emojis: Pair{
			User:     float64(userEmojis),
			GroupAvg: round1(float64(totalEmojis) / numAuthors),
		},
	}
	return c, true
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

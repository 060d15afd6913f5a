package sentiment

import "sort"

// Label groups lexicon entries that share a polarity.
type Label string

const (
	Happy   Label = "happy"
	Excited Label = "excited"
	Tender  Label = "tender"
	Comfort Label = "comfort"
	Sad     Label = "sad"
	Angry   Label = "angry"
)

// polarity 每类关键词的情感极性权重。
var polarity = map[Label]float64{
	Happy:   0.8,
	Excited: 0.7,
	Tender:  0.4,
	Comfort: 0.3,
	Sad:     -0.6,
	Angry:   -0.8,
}

// keywordBuckets 情感关键词表，中英文混排；单个英文单词按词匹配，其余按子串匹配。
var keywordBuckets = map[Label][]string{
	Happy: {
		"happy", "glad", "good", "great", "nice", "awesome", "amazing", "love", "loved", "lovely",
		"thanks", "thank", "fun", "funny", "lol", "haha", "hahaha", "best", "perfect", "beautiful",
		"enjoy", "enjoyed", "wonderful", "fantastic", "cute", "cool", "yay", "congrats", "congratulations",
		"开心", "高兴", "喜悦", "快乐", "太好了", "太棒了", "真棒", "哈哈", "喜欢", "满意", "好耶", "笑死",
		":)", ":-)", ":d", "😂", "😍", "😊", "😄", "🥰", "❤",
	},
	Excited: {
		"wow", "excited", "exciting", "hype", "superb", "unbelievable", "incredible", "epic",
		"can't wait", "cannot wait",
		"期待", "激动", "太酷了", "震撼", "惊喜", "哇塞", "哇哦", "热血", "给力", "惊艳", "太妙了",
		"🔥", "🎉", "🤩",
	},
	Tender: {
		"soft", "gentle", "calm", "sweet", "kind", "warm", "peaceful", "relaxed",
		"温柔", "柔和", "平静", "放松", "温和", "暖",
	},
	Comfort: {
		"safe", "support", "proud", "hug", "hugs",
		"don't worry", "take it easy", "i'm here", "for you",
		"别担心", "没事", "抱抱", "安心", "放心", "陪着", "给你力量",
	},
	Sad: {
		"sad", "unhappy", "cry", "crying", "depressed", "tragedy", "upset", "hurt", "sorrow", "sorry",
		"bad", "miss", "lonely", "tired", "sick", "awful", "terrible", "worst", "boring", "disappointed",
		"难过", "伤心", "失落", "沮丧", "悲伤", "痛苦", "寂寞", "孤单", "失望", "心碎", "低落", "委屈",
		":(", ":-(", "😢", "😭", "😞",
	},
	Angry: {
		"angry", "furious", "rage", "mad", "annoyed", "annoying", "pissed", "outrage", "hate", "stupid",
		"idiot", "wtf", "ugh",
		"生气", "愤怒", "火大", "气死", "烦死", "受够了", "怒火", "气愤", "抓狂",
		"😡", "🤬",
	},
}

// negations flip and dampen the next polar word.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "don't": {}, "dont": {}, "isn't": {}, "isnt": {},
	"wasn't": {}, "aren't": {}, "can't": {}, "cant": {}, "won't": {}, "didn't": {}, "doesn't": {},
}

// intensifiers scale the next polar word.
var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "so": 1.2, "super": 1.4, "extremely": 1.5, "too": 1.2,
	"totally": 1.3, "absolutely": 1.4, "quite": 1.1, "bit": 0.7, "slightly": 0.6,
}

type phrase struct {
	text  string
	value float64
}

var (
	// wordValues holds single-token entries looked up per token.
	wordValues = map[string]float64{}
	// phrases holds multi-word, symbol and CJK entries matched by substring
	// on word boundaries, sorted so that summation order is stable.
	phrases []phrase
)

func init() {
	for label, words := range keywordBuckets {
		for _, w := range words {
			if isSingleWord(w) {
				wordValues[w] = polarity[label]
				continue
			}
			phrases = append(phrases, phrase{text: w, value: polarity[label]})
		}
	}
	sort.Slice(phrases, func(i, j int) bool { return phrases[i].text < phrases[j].text })
}

func isSingleWord(w string) bool {
	for _, r := range w {
		if !isTokenRune(r) || r > 0x7f {
			return false
		}
	}
	return true
}

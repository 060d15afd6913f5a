package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Neutral(t *testing.T) {
	assert.Zero(t, Score(""))
	assert.Zero(t, Score("   "))
	assert.Zero(t, Score("meet at 5 at the station"))
}

func TestScore_Polarity(t *testing.T) {
	assert.Greater(t, Score("this is great, I love it"), 0.0)
	assert.Less(t, Score("this is terrible and I hate it"), 0.0)
	assert.Greater(t, Score("今天好开心"), 0.0)
	assert.Less(t, Score("我很难过"), 0.0)
}

func TestScore_NegationFlipsAndDampens(t *testing.T) {
	plain := Score("good")
	negated := Score("not good")

	assert.Less(t, negated, 0.0)
	assert.InDelta(t, -0.5*plain, negated, 1e-9)
}

func TestScore_Intensifier(t *testing.T) {
	assert.Greater(t, Score("very good"), Score("good"))
	assert.Less(t, Score("slightly good"), Score("good"))
}

func TestScore_ModifierResetsAfterNonPolarWord(t *testing.T) {
	assert.InDelta(t, Score("good"), Score("not the good"), 1e-9)
}

func TestScore_Clamped(t *testing.T) {
	for _, text := range []string{
		"extremely super awesome!!!",
		"absolutely extremely furious!!!!!!",
	} {
		s := Score(text)
		assert.GreaterOrEqual(t, s, -1.0, text)
		assert.LessOrEqual(t, s, 1.0, text)
	}
	assert.Equal(t, 1.0, Score("extremely super awesome!!!"))
}

func TestScore_PhrasesAndEmoji(t *testing.T) {
	assert.Greater(t, Score("can't wait 🎉"), 0.0)
	assert.Less(t, Score("😭"), 0.0)
}

func TestScore_PhrasesRespectWordBoundaries(t *testing.T) {
	assert.Greater(t, Score("this one is for you"), 0.0)
	assert.Zero(t, Score("for your information"))

	assert.Greater(t, Score("ok :D"), 0.0)
	assert.Zero(t, Score("meh :dunno"))

	assert.Greater(t, Score("好开心啊"), 0.0)
	assert.Equal(t, 2, countPhrase("for you, for you", "for you"))
	assert.Equal(t, 1, countPhrase("for your sake, for you", "for you"))
	assert.Equal(t, 2, countPhrase(":(:(", ":("))
}

func TestScore_Deterministic(t *testing.T) {
	text := "lol that was so funny 😂 but also kind of sad :("
	first := Score(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Score(text))
	}
}

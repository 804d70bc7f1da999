package apply

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOption_ExactBeatsSubstring(t *testing.T) {
	values := []string{"Strongly Disagree", "Disagree", "Agree", "Strongly Agree"}

	idx, ok := MatchOption("Agree", values)
	assert.True(t, ok)
	assert.Equal(t, 2, idx, "exact match wins over the Strongly Agree substring hit")

	idx, ok = MatchOption("agree", values)
	assert.True(t, ok)
	assert.Equal(t, 2, idx, "exact matching is case-insensitive")
}

func TestMatchOption_SubstringFallback(t *testing.T) {
	values := []string{"Yes, I can", "No, I cannot"}
	idx, ok := MatchOption("Yes", values)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMatchOption_NoMatch(t *testing.T) {
	_, ok := MatchOption("Disagree", []string{"Yes", "No"})
	assert.False(t, ok)

	_, ok = MatchOption("", []string{"Yes", "No"})
	assert.False(t, ok)
}

func TestRandomIndex_SeededIsDeterministic(t *testing.T) {
	a := randomIndex(rand.New(rand.NewSource(42)), 4)
	b := randomIndex(rand.New(rand.NewSource(42)), 4)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 4)

	assert.Equal(t, 0, randomIndex(rand.New(rand.NewSource(42)), 1))
}

func TestClassify_FirstProbeWins(t *testing.T) {
	f := newFakeField("q", KindRadio, KindFieldset)
	assert.Equal(t, KindRadio, Classify(context.Background(), f))

	assert.Equal(t, KindUnknown, Classify(context.Background(), newFakeField("q")))
}

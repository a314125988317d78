package mastery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	assert.True(t, Matches("  Abandon ", "abandon"))
	assert.True(t, Matches("ABANDON", "Abandon"))
	assert.False(t, Matches("abandoned", "abandon"))
	assert.False(t, Matches("", "abandon"))
}

func TestClassify(t *testing.T) {
	g := NewGrader()
	tests := []struct {
		elapsed time.Duration
		want    Tier
	}{
		{0, TierBrilliant},
		{5 * time.Second, TierBrilliant},
		{5*time.Second + time.Millisecond, TierGreat},
		{7 * time.Second, TierGreat},
		{8 * time.Second, TierCorrect},
		{10 * time.Minute, TierCorrect},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Classify(tt.elapsed), "elapsed %v", tt.elapsed)
	}
}

func TestGradeCorrect(t *testing.T) {
	g := NewGrader()
	tests := []struct {
		name    string
		prior   int
		elapsed time.Duration
		want    int
		tier    Tier
	}{
		{"brilliant from zero", 0, time.Second, 3, TierBrilliant},
		{"great from one", 1, 6 * time.Second, 3, TierGreat},
		{"correct from two", 2, 20 * time.Second, 3, TierCorrect},
		{"capped at max", 3, time.Second, MaxScore, TierBrilliant},
		{"already mastered", 4, 20 * time.Second, MaxScore, TierCorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Grade("Word", "word", tt.prior, 2, tt.elapsed)
			assert.True(t, res.Correct)
			assert.Equal(t, tt.tier, res.Tier)
			assert.Equal(t, tt.want, res.Score)
			assert.Equal(t, tt.prior, res.PriorScore)
			assert.Equal(t, 3, res.Streak)
		})
	}
}

func TestGradeMissResets(t *testing.T) {
	g := NewGrader()
	for prior := MinScore; prior <= MaxScore; prior++ {
		res := g.Grade("nope", "word", prior, 12, time.Second)
		assert.False(t, res.Correct)
		assert.Equal(t, TierNone, res.Tier)
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, 0, res.Streak)
	}
}

func TestGradeMissDecrement(t *testing.T) {
	g := NewGrader()
	g.Policy = MissDecrement
	assert.Equal(t, 3, g.Grade("nope", "word", 4, 1, time.Second).Score)
	assert.Equal(t, 0, g.Grade("nope", "word", 0, 1, time.Second).Score)
}

func TestStreakAcrossAnswers(t *testing.T) {
	g := NewGrader()
	streak, score := 0, DefaultScore
	for i := 1; i <= 5; i++ {
		res := g.Grade("word", "word", score, streak, 3*time.Second)
		assert.GreaterOrEqual(t, res.Streak, streak)
		streak, score = res.Streak, res.Score
		assert.Equal(t, i, streak)
	}
	res := g.Grade("miss", "word", score, streak, time.Second)
	assert.Equal(t, 0, res.Streak)
}

func TestWrongThenFastCorrectNeverJumpsToMax(t *testing.T) {
	g := NewGrader()
	res := g.Grade("x", "itemA", 0, 0, time.Second)
	assert.Equal(t, 0, res.Score)

	res = g.Grade("itemA", "itemA", res.Score, res.Streak, time.Second)
	assert.Equal(t, TierBrilliant, res.Tier)
	assert.Contains(t, []int{1, 2, 3}, res.Score)
}

func TestParseMissPolicy(t *testing.T) {
	p, err := ParseMissPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, MissReset, p)

	p, err = ParseMissPolicy(" Decrement ")
	assert.NoError(t, err)
	assert.Equal(t, MissDecrement, p)

	_, err = ParseMissPolicy("halve")
	assert.Error(t, err)
}

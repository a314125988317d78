package mastery

const (
	// MinScore marks an item the learner most recently missed
	MinScore = 0
	// MaxScore marks a fully mastered item
	MaxScore = 4
	// DefaultScore is used for items the learner has never answered
	DefaultScore = 1
)

// WeightTable maps a mastery score to its sampling weight. Index is the score.
type WeightTable [MaxScore + 1]float64

// DefaultWeights is the canonical table: each step up in mastery divides the
// chance of being drawn by ten, and a missed item is a million times more
// likely than a mastered one.
var DefaultWeights = WeightTable{
	0: 1_000_000,
	1: 100_000,
	2: 10_000,
	3: 1_000,
	4: 1,
}

// Weight returns the sampling weight for a score. Out-of-range scores are clamped.
func (w WeightTable) Weight(score int) float64 {
	return w[Clamp(score)]
}

// Decreasing reports whether the table is strictly decreasing in score
func (w WeightTable) Decreasing() bool {
	for s := MinScore; s < MaxScore; s++ {
		if w[s] <= w[s+1] {
			return false
		}
	}
	return w[MaxScore] > 0
}

// Clamp bounds a score to [MinScore, MaxScore]
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

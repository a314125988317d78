package ranking

import (
	"math"

	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/pkg/models"
)

// Scale is the top of the rating range. A range where every item sits at
// MaxScore rates Scale.
const Scale = 10000

// MasteryRate rates how well items are known on a 0..Scale scale.
// An empty range rates 0.
func MasteryRate(items []models.Item, scoreOf func(answer string) int) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += mastery.Clamp(scoreOf(it.Answer))
	}
	mean := float64(sum) / float64(len(items))
	return int(math.Round(mean / mastery.MaxScore * Scale))
}

// TotalRate is the arithmetic mean of per-range rates
func TotalRate(rates []int) float64 {
	if len(rates) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rates {
		sum += r
	}
	return float64(sum) / float64(len(rates))
}

// Distribution counts items per mastery score, index is the score
func Distribution(items []models.Item, scoreOf func(answer string) int) [mastery.MaxScore + 1]int {
	var out [mastery.MaxScore + 1]int
	for _, it := range items {
		out[mastery.Clamp(scoreOf(it.Answer))]++
	}
	return out
}

package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabbot/pkg/models"
)

func items(answers ...string) []models.Item {
	out := make([]models.Item, len(answers))
	for i, a := range answers {
		out[i] = models.Item{Answer: a}
	}
	return out
}

func scores(m map[string]int, def int) func(string) int {
	return func(a string) int {
		if v, ok := m[a]; ok {
			return v
		}
		return def
	}
}

func TestMasteryRate(t *testing.T) {
	tests := []struct {
		name   string
		items  []models.Item
		scores map[string]int
		want   int
	}{
		{"empty range", nil, nil, 0},
		{"all neutral", items("a", "b"), nil, 2500},
		{"all mastered", items("a", "b"), map[string]int{"a": 4, "b": 4}, Scale},
		{"all missed", items("a", "b"), map[string]int{"a": 0, "b": 0}, 0},
		{"mixed", items("a", "b", "c"), map[string]int{"a": 0, "b": 4, "c": 3}, 5833},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MasteryRate(tt.items, scores(tt.scores, 1))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, Scale)
		})
	}
}

func TestTotalRateIsMean(t *testing.T) {
	assert.Equal(t, 0.0, TotalRate(nil))
	assert.Equal(t, 2500.0, TotalRate([]int{2500}))
	assert.InDelta(t, 3333.333, TotalRate([]int{0, 5000, 5000}), 0.001)
}

func TestDistribution(t *testing.T) {
	d := Distribution(items("a", "b", "c", "d"), scores(map[string]int{"a": 0, "b": 4, "c": 4}, 1))
	assert.Equal(t, [5]int{1, 1, 0, 0, 2}, d)
}

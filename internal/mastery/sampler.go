package mastery

import (
	"errors"

	"github.com/example/vocabbot/pkg/models"
)

// ErrNoCandidates is returned when the sampler is handed an empty item list
var ErrNoCandidates = errors.New("no candidate items")

// Rand is the randomness the sampler needs. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Sampler draws the next item to present, favouring weakly known items
type Sampler struct {
	// Weights maps score to draw weight
	Weights WeightTable
}

// NewSampler creates a sampler with the default weight table
func NewSampler() *Sampler {
	return &Sampler{Weights: DefaultWeights}
}

// Next picks one item from items. Items in recent are skipped; if that leaves
// nothing, the history is cleared and the draw is retried once over the full
// list. The chosen item is pushed into recent.
func (s *Sampler) Next(items []models.Item, scoreOf func(answer string) int, recent *Recent, rng Rand) (models.Item, error) {
	if len(items) == 0 {
		return models.Item{}, ErrNoCandidates
	}

	pool := make([]models.Item, 0, len(items))
	for _, it := range items {
		if !recent.Contains(it.Answer) {
			pool = append(pool, it)
		}
	}
	if len(pool) == 0 {
		recent.Clear()
		pool = items
	}

	chosen := s.draw(pool, scoreOf, rng)
	recent.Push(chosen.Answer)
	return chosen, nil
}

// draw performs a single weighted pick. pool must be non-empty.
func (s *Sampler) draw(pool []models.Item, scoreOf func(string) int, rng Rand) models.Item {
	weights := make([]float64, len(pool))
	var total float64
	for i, it := range pool {
		weights[i] = s.Weights.Weight(scoreOf(it.Answer))
		total += weights[i]
	}

	target := rng.Float64() * total
	for i, w := range weights {
		if target < w {
			return pool[i]
		}
		target -= w
	}
	// Floating point leftovers land on the last item
	return pool[len(pool)-1]
}

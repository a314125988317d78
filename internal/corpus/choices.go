package corpus

import (
	"github.com/example/vocabbot/pkg/models"
)

// Shuffler is the randomness choice building needs. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Distractors returns up to count wrong answers for item, preferring items
// from the same range and topping up from the rest of the corpus.
func (c *Corpus) Distractors(item models.Item, rangeKey string, count int, rng Shuffler) []string {
	options := make([]string, 0, count)
	used := map[string]bool{item.Answer: true}

	pick := func(pool []models.Item) {
		shuffled := append([]models.Item(nil), pool...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, w := range shuffled {
			if len(options) >= count {
				return
			}
			if used[w.Answer] {
				continue
			}
			used[w.Answer] = true
			options = append(options, w.Answer)
		}
	}

	if r, ok := c.Range(rangeKey); ok {
		pick(r.Items)
	}
	if len(options) < count {
		pick(c.all)
	}
	return options
}

// Choices returns the correct answer mixed in with count distractors
func (c *Corpus) Choices(item models.Item, rangeKey string, count int, rng Shuffler) []string {
	choices := append(c.Distractors(item, rangeKey, count, rng), item.Answer)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

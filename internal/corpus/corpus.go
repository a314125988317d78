package corpus

import (
	"fmt"
	"strings"

	"github.com/example/vocabbot/pkg/models"
)

// Corpus is the immutable item list, grouped into ranges
type Corpus struct {
	ranges   []models.Range
	byKey    map[string]int
	byAnswer map[string]models.Item
	all      []models.Item
}

// New validates ranges and builds lookup tables. Range keys must be unique;
// an answer appearing twice keeps its first definition.
func New(ranges []models.Range) (*Corpus, error) {
	c := &Corpus{
		byKey:    make(map[string]int, len(ranges)),
		byAnswer: make(map[string]models.Item),
	}
	for _, r := range ranges {
		key := strings.TrimSpace(r.Key)
		if key == "" {
			return nil, fmt.Errorf("range with title %q has no key", r.Title)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate range key %q", key)
		}
		if r.Title == "" {
			r.Title = key
		}
		r.Key = key
		r.Items = append([]models.Item(nil), r.Items...)

		c.byKey[key] = len(c.ranges)
		c.ranges = append(c.ranges, r)
		for _, it := range r.Items {
			if _, seen := c.byAnswer[it.Answer]; seen {
				continue
			}
			c.byAnswer[it.Answer] = it
			c.all = append(c.all, it)
		}
	}
	return c, nil
}

// Ranges returns the ranges in load order
func (c *Corpus) Ranges() []models.Range {
	return c.ranges
}

func (c *Corpus) Range(key string) (models.Range, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return models.Range{}, false
	}
	return c.ranges[i], true
}

func (c *Corpus) Item(answer string) (models.Item, bool) {
	it, ok := c.byAnswer[answer]
	return it, ok
}

// All returns every distinct item across ranges
func (c *Corpus) All() []models.Item {
	return c.all
}

// EmptyRanges lists the keys of ranges that hold no items
func (c *Corpus) EmptyRanges() []string {
	var out []string
	for _, r := range c.ranges {
		if len(r.Items) == 0 {
			out = append(out, r.Key)
		}
	}
	return out
}

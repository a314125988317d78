package mastery

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the qualitative grade of a correct answer, based on how fast it came
type Tier int

const (
	// TierNone is used for incorrect answers
	TierNone Tier = iota
	TierCorrect
	TierGreat
	TierBrilliant
)

func (t Tier) String() string {
	switch t {
	case TierBrilliant:
		return "!!Brilliant"
	case TierGreat:
		return "!Great"
	case TierCorrect:
		return "✓Correct"
	default:
		return "Wrong"
	}
}

// MissPolicy decides what an incorrect answer does to the item's score
type MissPolicy string

const (
	// MissReset drops the score to zero regardless of prior mastery
	MissReset MissPolicy = "reset"
	// MissDecrement lowers the score by one
	MissDecrement MissPolicy = "decrement"
)

// ParseMissPolicy validates a policy name. An empty string means MissReset.
func ParseMissPolicy(s string) (MissPolicy, error) {
	switch MissPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissReset:
		return MissReset, nil
	case MissDecrement:
		return MissDecrement, nil
	}
	return "", fmt.Errorf("unknown miss policy %q", s)
}

// TierRule grants Tier to answers arriving within Within, raising the score by Delta
type TierRule struct {
	Tier   Tier
	Within time.Duration
	Delta  int
}

// Grader judges answers and computes the resulting score and streak
type Grader struct {
	// Rules ordered fastest first; the last rule is the catch-all
	Rules []TierRule
	// Policy applied to incorrect answers
	Policy MissPolicy
}

// NewGrader creates a grader with the default tier table:
// within 5s Brilliant (+3), within 7s Great (+2), otherwise Correct (+1).
func NewGrader() *Grader {
	return &Grader{
		Rules: []TierRule{
			{Tier: TierBrilliant, Within: 5 * time.Second, Delta: 3},
			{Tier: TierGreat, Within: 7 * time.Second, Delta: 2},
			{Tier: TierCorrect, Within: 0, Delta: 1},
		},
		Policy: MissReset,
	}
}

// Result is the outcome of grading one answer
type Result struct {
	Correct    bool
	Tier       Tier
	PriorScore int
	Score      int
	Streak     int
	Elapsed    time.Duration
}

// Matches compares a submitted answer against the expected one: trimmed, case-insensitive, exact
func Matches(submitted, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(answer))
}

// Classify returns the tier earned by a correct answer after elapsed
func (g *Grader) Classify(elapsed time.Duration) Tier {
	for i, rule := range g.Rules {
		if i == len(g.Rules)-1 || elapsed <= rule.Within {
			return rule.Tier
		}
	}
	return TierCorrect
}

// Delta returns the score increase granted by a tier
func (g *Grader) Delta(t Tier) int {
	for _, rule := range g.Rules {
		if rule.Tier == t {
			return rule.Delta
		}
	}
	return 0
}

// Grade judges submitted against answer. prior and streak are the learner's
// values before this answer.
func (g *Grader) Grade(submitted, answer string, prior, streak int, elapsed time.Duration) Result {
	prior = Clamp(prior)
	res := Result{PriorScore: prior, Elapsed: elapsed}

	if !Matches(submitted, answer) {
		res.Tier = TierNone
		res.Streak = 0
		if g.Policy == MissDecrement {
			res.Score = Clamp(prior - 1)
		} else {
			res.Score = MinScore
		}
		return res
	}

	res.Correct = true
	res.Tier = g.Classify(elapsed)
	res.Score = Clamp(prior + g.Delta(res.Tier))
	res.Streak = streak + 1
	return res
}

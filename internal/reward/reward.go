package reward

import (
	"time"

	"github.com/example/vocabbot/internal/mastery"
)

// Table holds the knobs of the point economy
type Table struct {
	// TierPoints is the base payout per tier
	TierPoints map[mastery.Tier]int64
	// MasteryCeiling minus the prior score gives the mastery factor.
	// It sits one above MaxScore so reviewing a mastered item still pays.
	MasteryCeiling int
	// FeverMultiplier scales the payout while fever is on
	FeverMultiplier int64
	// FeverOn is the chance per correct answer to enter fever
	FeverOn float64
	// FeverOff is the chance per correct answer to leave fever
	FeverOff float64
	// Period after which the accumulated total starts over
	Period time.Duration
}

// DefaultTable returns the canonical reward table
func DefaultTable() *Table {
	return &Table{
		TierPoints: map[mastery.Tier]int64{
			mastery.TierCorrect:   1,
			mastery.TierGreat:     3,
			mastery.TierBrilliant: 10,
		},
		MasteryCeiling:  mastery.MaxScore + 1,
		FeverMultiplier: 300,
		FeverOn:         0.005,
		FeverOff:        0.1,
		Period:          DefaultPeriod,
	}
}

// Breakdown shows how a payout was assembled
type Breakdown struct {
	Base          int64
	MasteryFactor int64
	Streak        int
	StreakFactor  int64
	Fever         bool
	Points        int64
}

// Points computes the payout for a correct answer. streak is the value after
// this answer was counted.
func (t *Table) Points(tier mastery.Tier, priorScore, streak int, fever bool) Breakdown {
	b := Breakdown{
		Base:          t.TierPoints[tier],
		MasteryFactor: int64(t.MasteryCeiling - mastery.Clamp(priorScore)),
		Streak:        streak,
		StreakFactor:  cube(streak),
		Fever:         fever,
	}
	b.Points = b.Base * b.MasteryFactor * b.StreakFactor
	if fever {
		b.Points *= t.FeverMultiplier
	}
	return b
}

func cube(n int) int64 {
	if n < 0 {
		n = 0
	}
	v := int64(n)
	return v * v * v
}

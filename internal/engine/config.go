package engine

import "time"

// Chat commands understood by Handle
const (
	CommandLearn   = "learn"
	CommandStats   = "stats"
	CommandRanking = "ranking"
	renamePrefix   = "@"
)

// ReviewRange is the key of the dynamic range holding every missed word
const ReviewRange = "WRONG"

// Tuning holds the engine knobs that are not part of grading or rewards
type Tuning struct {
	// SaveEvery persists a learner unconditionally every this many answers
	SaveEvery int
	// TipEvery sends a tip every this many answers, 0 disables tips
	TipEvery int
	// Distractors is the number of wrong choices offered with each question
	Distractors int
	// NameMaxLen is the longest display name accepted, in runes
	NameMaxLen int
	// DefaultName is shown for learners who never picked a name
	DefaultName string
	// RewardBoardSize and RateBoardSize limit the two leaderboards
	RewardBoardSize int
	RateBoardSize   int
	// StoreTimeout bounds the lazy load of a learner's record
	StoreTimeout time.Duration
}

// DefaultTuning returns the standard engine settings
func DefaultTuning() Tuning {
	return Tuning{
		SaveEvery:       5,
		TipEvery:        5,
		Distractors:     3,
		NameMaxLen:      10,
		DefaultName:     "Learner",
		RewardBoardSize: 5,
		RateBoardSize:   30,
		StoreTimeout:    5 * time.Second,
	}
}

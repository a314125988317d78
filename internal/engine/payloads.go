package engine

import (
	"time"

	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/pkg/models"
)

// Payload is one outgoing message for the chat transport to render
type Payload interface {
	payload()
}

// Question asks the learner to pick the word matching Text
type Question struct {
	RangeKey  string
	Text      string
	Choices   []string
	Score     int
	Seen      bool
	Review    bool // Drawn from the missed-words range
	Remaining int  // Unseen words left in the range, or missed words left when reviewing
}

// Feedback reports how an answer was graded
type Feedback struct {
	Correct    bool
	Tier       mastery.Tier
	Answer     string
	Meaning    string
	PriorScore int
	Score      int
	Elapsed    time.Duration
	Streak     int

	// Reward breakdown, zero for incorrect answers
	TierPoints    int64
	MasteryFactor int64
	Points        int64
	Fever         bool
	PeriodTotal   int64
}

// RangeRating is the rating of a single range
type RangeRating struct {
	Key    string
	Title  string
	Rating int
}

// Stats summarises a learner's mastery
type Stats struct {
	Name         string
	Ranges       []RangeRating
	TotalRating  float64
	Distribution [mastery.MaxScore + 1]int
}

// Leaderboard is a ranked list of users by Metric
type Leaderboard struct {
	Metric models.Metric
	Rows   []models.LeaderboardRow
}

// MenuOption is one range the learner can study
type MenuOption struct {
	Key   string
	Title string
}

// Menu lists the ranges available for study
type Menu struct {
	Options []MenuOption
}

// NoticeKind classifies a Notice
type NoticeKind int

const (
	NoticeNothingToShow NoticeKind = iota
	NoticeEmptyPool
	NoticeInvalidName
	NoticeInvalidChoice
	NoticeNoPendingSession
	NoticeNameChanged
	NoticeUnavailable
)

// Notice is a short informational reply
type Notice struct {
	Kind   NoticeKind
	Detail string
}

// Tip is an occasional hint sent alongside feedback
type Tip struct {
	Text string
}

func (Question) payload()    {}
func (Feedback) payload()    {}
func (Stats) payload()       {}
func (Leaderboard) payload() {}
func (Menu) payload()        {}
func (Notice) payload()      {}
func (Tip) payload()         {}

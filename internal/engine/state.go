package engine

import (
	"time"

	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/internal/reward"
	"github.com/example/vocabbot/pkg/models"
)

// UserState is everything the engine knows about one learner
type UserState struct {
	Name        string
	Scores      map[string]int
	Recent      *mastery.Recent
	Streak      int
	Fever       bool
	Ledger      reward.Ledger
	AnswerCount int
	TotalRate   float64

	session *Session
}

func newUserState(name string) *UserState {
	return &UserState{
		Name:   name,
		Scores: make(map[string]int),
		Recent: mastery.NewRecent(mastery.RecentCapacity, nil),
	}
}

// stateFromRecord rebuilds state from its persisted form
func stateFromRecord(rec *models.UserRecord, defaultName string) *UserState {
	st := newUserState(rec.Name)
	if st.Name == "" {
		st.Name = defaultName
	}
	for k, v := range rec.Scores {
		st.Scores[k] = mastery.Clamp(v)
	}
	st.Recent = mastery.NewRecent(mastery.RecentCapacity, rec.Recent)
	st.Streak = rec.Streak
	if st.Streak < 0 {
		st.Streak = 0
	}
	st.Fever = rec.Fever
	st.Ledger = reward.Ledger{PeriodStart: rec.RewardPeriodStart, Total: rec.RewardTotal}
	st.AnswerCount = rec.AnswerCount
	st.TotalRate = rec.TotalRate
	return st
}

// Score returns the mastery score for an item, DefaultScore when never answered
func (s *UserState) Score(answer string) int {
	if v, ok := s.Scores[answer]; ok {
		return v
	}
	return mastery.DefaultScore
}

// Seen reports whether the learner has ever answered the item
func (s *UserState) Seen(answer string) bool {
	_, ok := s.Scores[answer]
	return ok
}

func (s *UserState) SetScore(answer string, score int) {
	s.Scores[answer] = mastery.Clamp(score)
}

// Snapshot copies the state into a record that is safe to hand to another goroutine
func (s *UserState) Snapshot(userID string, now time.Time) *models.UserRecord {
	scores := make(map[string]int, len(s.Scores))
	for k, v := range s.Scores {
		scores[k] = v
	}
	return &models.UserRecord{
		UserID:            userID,
		Name:              s.Name,
		Scores:            scores,
		Recent:            s.Recent.IDs(),
		Streak:            s.Streak,
		Fever:             s.Fever,
		RewardTotal:       s.Ledger.Total,
		RewardPeriodStart: s.Ledger.PeriodStart,
		TotalRate:         s.TotalRate,
		AnswerCount:       s.AnswerCount,
		UpdatedAt:         now,
	}
}

package engine

import (
	"time"

	"github.com/example/vocabbot/pkg/models"
)

// Session is the one question a learner currently has open
type Session struct {
	RangeKey  string
	Item      models.Item
	Choices   []string
	StartedAt time.Time
}

// OpenSession records a new question, silently replacing any unanswered one
func (s *UserState) OpenSession(rangeKey string, item models.Item, choices []string, now time.Time) {
	s.session = &Session{
		RangeKey:  rangeKey,
		Item:      item,
		Choices:   choices,
		StartedAt: now,
	}
}

// CloseSession returns and clears the open question
func (s *UserState) CloseSession() (Session, error) {
	if s.session == nil {
		return Session{}, ErrNoPendingSession
	}
	sess := *s.session
	s.session = nil
	return sess, nil
}

// PendingSession returns the open question without clearing it
func (s *UserState) PendingSession() (Session, bool) {
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

package models

import "time"

// UserRecord is the persisted shape of a learner's state
type UserRecord struct {
	UserID            string         `json:"user_id" db:"user_id"`
	Name              string         `json:"name" db:"name"`
	Scores            map[string]int `json:"scores" db:"-"`
	Recent            []string       `json:"recent" db:"-"` // Oldest first
	Streak            int            `json:"streak" db:"streak"`
	Fever             bool           `json:"fever" db:"fever"`
	RewardTotal       int64          `json:"reward_total" db:"reward_total"`
	RewardPeriodStart time.Time      `json:"reward_period_start" db:"reward_period_start"`
	TotalRate         float64        `json:"total_rate" db:"total_rate"`
	AnswerCount       int            `json:"answer_count" db:"answer_count"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

package models

// Metric selects the column a leaderboard is ordered by
type Metric string

const (
	// MetricRate orders by overall mastery rating
	MetricRate Metric = "rate"
	// MetricReward orders by points accumulated in the current reward period
	MetricReward Metric = "reward"
)

// LeaderboardRow is one ranked user
type LeaderboardRow struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"user_id" db:"user_id"`
	Name   string  `json:"name" db:"name"`
	Value  float64 `json:"value" db:"value"`
}

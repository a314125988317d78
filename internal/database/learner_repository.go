package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbot/pkg/models"
)

// LearnerRepository stores learner records in a SQL database
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

type learnerRow struct {
	UserID            string    `db:"user_id"`
	Name              string    `db:"name"`
	Recent            string    `db:"recent"`
	Streak            int       `db:"streak"`
	Fever             bool      `db:"fever"`
	RewardTotal       int64     `db:"reward_total"`
	RewardPeriodStart time.Time `db:"reward_period_start"`
	TotalRate         float64   `db:"total_rate"`
	AnswerCount       int       `db:"answer_count"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type scoreRow struct {
	Item  string `db:"item"`
	Score int    `db:"score"`
}

// Get returns the learner's record, or nil when none exists
func (r *LearnerRepository) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	var row learnerRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT user_id, name, recent, streak, fever, reward_total, reward_period_start,
			total_rate, answer_count, updated_at
		FROM learners WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	var scores []scoreRow
	err = r.db.SelectContext(ctx, &scores,
		r.db.Rebind(`SELECT item, score FROM mastery_scores WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mastery scores: %w", err)
	}

	rec := &models.UserRecord{
		UserID:            row.UserID,
		Name:              row.Name,
		Scores:            make(map[string]int, len(scores)),
		Streak:            row.Streak,
		Fever:             row.Fever,
		RewardTotal:       row.RewardTotal,
		RewardPeriodStart: row.RewardPeriodStart,
		TotalRate:         row.TotalRate,
		AnswerCount:       row.AnswerCount,
		UpdatedAt:         row.UpdatedAt,
	}
	for _, s := range scores {
		rec.Scores[s.Item] = s.Score
	}
	if row.Recent != "" {
		if err := json.Unmarshal([]byte(row.Recent), &rec.Recent); err != nil {
			return nil, fmt.Errorf("failed to parse recent history: %w", err)
		}
	}
	return rec, nil
}

// Save upserts the learner row and every score in rec. Scores not present in
// rec keep their stored value.
func (r *LearnerRepository) Save(ctx context.Context, rec *models.UserRecord) error {
	recent, err := json.Marshal(rec.Recent)
	if err != nil {
		return fmt.Errorf("failed to marshal recent history: %w", err)
	}
	if rec.Recent == nil {
		recent = []byte("[]")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO learners (
			user_id, name, recent, streak, fever, reward_total, reward_period_start,
			total_rate, answer_count, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			recent = excluded.recent,
			streak = excluded.streak,
			fever = excluded.fever,
			reward_total = excluded.reward_total,
			reward_period_start = excluded.reward_period_start,
			total_rate = excluded.total_rate,
			answer_count = excluded.answer_count,
			updated_at = excluded.updated_at`),
		rec.UserID, rec.Name, string(recent), rec.Streak, rec.Fever, rec.RewardTotal,
		rec.RewardPeriodStart.UTC(), rec.TotalRate, rec.AnswerCount, rec.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save learner: %w", err)
	}

	upsert := tx.Rebind(`
		INSERT INTO mastery_scores (user_id, item, score) VALUES (?, ?, ?)
		ON CONFLICT (user_id, item) DO UPDATE SET score = excluded.score`)
	for item, score := range rec.Scores {
		if _, err := tx.ExecContext(ctx, upsert, rec.UserID, item, score); err != nil {
			return fmt.Errorf("failed to save score for %q: %w", item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit learner: %w", err)
	}
	return nil
}

// Leaderboard returns up to limit learners ordered by metric, best first
func (r *LearnerRepository) Leaderboard(ctx context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error) {
	var query string
	switch metric {
	case models.MetricRate:
		query = `SELECT user_id, name, total_rate AS value FROM learners
			ORDER BY total_rate DESC, user_id LIMIT ?`
	case models.MetricReward:
		query = `SELECT user_id, name, CAST(reward_total AS DOUBLE PRECISION) AS value FROM learners
			WHERE reward_total > 0
			ORDER BY reward_total DESC, user_id LIMIT ?`
	default:
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}

	var rows []struct {
		UserID string  `db:"user_id"`
		Name   string  `db:"name"`
		Value  float64 `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("failed to read %s leaderboard: %w", metric, err)
	}

	out := make([]models.LeaderboardRow, len(rows))
	for i, row := range rows {
		out[i] = models.LeaderboardRow{UserID: row.UserID, Name: row.Name, Value: row.Value}
	}
	return out, nil
}

// PruneRewards zeroes reward totals whose period started before cutoff
func (r *LearnerRepository) PruneRewards(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE learners SET reward_total = 0
		WHERE reward_total > 0 AND reward_period_start < ?`), cutoff.UTC())
	if err != nil {
		return fmt.Errorf("failed to prune rewards: %w", err)
	}
	return nil
}

func (r *LearnerRepository) Close() error {
	return r.db.Close()
}

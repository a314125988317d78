package persist

import (
	"context"
	"time"

	"github.com/example/vocabbot/pkg/models"
)

// Store is the remote keyed store holding one record per learner.
// Implementations give eventual consistency and no cross-key transactions.
type Store interface {
	// Get returns the record for userID, or nil when none exists
	Get(ctx context.Context, userID string) (*models.UserRecord, error)
	// Save merges rec into the stored record. Scores missing from rec are left untouched.
	Save(ctx context.Context, rec *models.UserRecord) error
	// Leaderboard returns up to limit rows ordered by metric, best first
	Leaderboard(ctx context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error)
	// PruneRewards zeroes reward totals whose period started before cutoff
	PruneRewards(ctx context.Context, cutoff time.Time) error
	Close() error
}

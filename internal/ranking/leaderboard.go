package ranking

import (
	"context"
	"fmt"

	"github.com/example/vocabbot/pkg/models"
)

// Reader is the sorted, limited query a store offers for leaderboards
type Reader interface {
	Leaderboard(ctx context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error)
}

// Board serves leaderboards straight from the store so every user is included
type Board struct {
	reader Reader
}

func NewBoard(reader Reader) *Board {
	return &Board{reader: reader}
}

// Top returns the topN rows for metric, best first, with ranks assigned
func (b *Board) Top(ctx context.Context, topN int, metric models.Metric) ([]models.LeaderboardRow, error) {
	switch metric {
	case models.MetricRate, models.MetricReward:
	default:
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}
	if topN <= 0 {
		return nil, nil
	}

	rows, err := b.reader.Leaderboard(ctx, metric, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s leaderboard: %w", metric, err)
	}
	if len(rows) > topN {
		rows = rows[:topN]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

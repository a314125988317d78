package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbot/pkg/models"
)

type stubReader struct {
	rows   []models.LeaderboardRow
	err    error
	metric models.Metric
	limit  int
}

func (s *stubReader) Leaderboard(_ context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error) {
	s.metric, s.limit = metric, limit
	return s.rows, s.err
}

func TestTopAssignsRanks(t *testing.T) {
	r := &stubReader{rows: []models.LeaderboardRow{
		{UserID: "u1", Name: "A", Value: 900},
		{UserID: "u2", Name: "B", Value: 500},
		{UserID: "u3", Name: "C", Value: 10},
	}}
	rows, err := NewBoard(r).Top(context.Background(), 2, models.MetricReward)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, models.MetricReward, r.metric)
	assert.Equal(t, 2, r.limit)
}

func TestTopRejectsUnknownMetric(t *testing.T) {
	_, err := NewBoard(&stubReader{}).Top(context.Background(), 5, models.Metric("streak"))
	assert.Error(t, err)
}

func TestTopWrapsStoreError(t *testing.T) {
	boom := errors.New("unreachable")
	_, err := NewBoard(&stubReader{err: boom}).Top(context.Background(), 5, models.MetricRate)
	assert.ErrorIs(t, err, boom)
}

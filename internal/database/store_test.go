package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbot/internal/persist"
	"github.com/example/vocabbot/pkg/models"
)

var periodStart = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func newSQLStore(t *testing.T) *LearnerRepository {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	repo := NewLearnerRepository(db)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	srv := miniredis.RunT(t)
	store := NewRedisStoreFromClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { store.Close() })
	return store
}

// each backend must behave like the in-memory reference
func backends(t *testing.T) map[string]persist.Store {
	return map[string]persist.Store{
		"sql":    newSQLStore(t),
		"redis":  newRedisStore(t),
		"memory": persist.NewMemoryStore(),
	}
}

func sampleRecord() *models.UserRecord {
	return &models.UserRecord{
		UserID:            "42",
		Name:              "Ann",
		Scores:            map[string]int{"apple": 4, "pear": 0},
		Recent:            []string{"pear", "apple"},
		Streak:            3,
		Fever:             true,
		RewardTotal:       144,
		RewardPeriodStart: periodStart,
		TotalRate:         4375.5,
		AnswerCount:       12,
		UpdatedAt:         periodStart.Add(3 * time.Hour),
	}
}

func TestGetMissingLearner(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := store.Get(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestSaveThenGet(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleRecord()
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Get(ctx, "42")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.Scores, got.Scores)
			assert.Equal(t, want.Recent, got.Recent)
			assert.Equal(t, want.Streak, got.Streak)
			assert.Equal(t, want.Fever, got.Fever)
			assert.Equal(t, want.RewardTotal, got.RewardTotal)
			assert.True(t, want.RewardPeriodStart.Equal(got.RewardPeriodStart))
			assert.InDelta(t, want.TotalRate, got.TotalRate, 1e-9)
			assert.Equal(t, want.AnswerCount, got.AnswerCount)
		})
	}
}

func TestSaveMergesScores(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, sampleRecord()))

			update := sampleRecord()
			update.Scores = map[string]int{"pear": 2, "plum": 1}
			update.Streak = 0
			require.NoError(t, store.Save(ctx, update))

			got, err := store.Get(ctx, "42")
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"apple": 4, "pear": 2, "plum": 1}, got.Scores)
			assert.Equal(t, 0, got.Streak)
		})
	}
}

func TestLeaderboards(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			learners := []*models.UserRecord{
				{UserID: "a", Name: "Ann", TotalRate: 1000, RewardTotal: 50, RewardPeriodStart: periodStart},
				{UserID: "b", Name: "Bo", TotalRate: 9000, RewardTotal: 0, RewardPeriodStart: periodStart},
				{UserID: "c", Name: "Cy", TotalRate: 5000, RewardTotal: 900, RewardPeriodStart: periodStart},
			}
			for _, rec := range learners {
				require.NoError(t, store.Save(ctx, rec))
			}

			rates, err := store.Leaderboard(ctx, models.MetricRate, 2)
			require.NoError(t, err)
			require.Len(t, rates, 2)
			assert.Equal(t, "b", rates[0].UserID)
			assert.Equal(t, "Bo", rates[0].Name)
			assert.Equal(t, "c", rates[1].UserID)

			rewards, err := store.Leaderboard(ctx, models.MetricReward, 5)
			require.NoError(t, err)
			require.Len(t, rewards, 2, "learners without rewards are hidden")
			assert.Equal(t, "c", rewards[0].UserID)
			assert.Equal(t, float64(900), rewards[0].Value)
		})
	}
}

func TestPruneRewards(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			old := &models.UserRecord{UserID: "old", Name: "Old", RewardTotal: 500, RewardPeriodStart: periodStart.AddDate(0, 0, -10)}
			fresh := &models.UserRecord{UserID: "new", Name: "New", RewardTotal: 20, RewardPeriodStart: periodStart}
			require.NoError(t, store.Save(ctx, old))
			require.NoError(t, store.Save(ctx, fresh))

			require.NoError(t, store.PruneRewards(ctx, periodStart.AddDate(0, 0, -7)))

			rewards, err := store.Leaderboard(ctx, models.MetricReward, 5)
			require.NoError(t, err)
			require.Len(t, rewards, 1)
			assert.Equal(t, "new", rewards[0].UserID)

			rec, err := store.Get(ctx, "old")
			require.NoError(t, err)
			assert.Zero(t, rec.RewardTotal)
		})
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "dsn")
	assert.Error(t, err)
}

package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbot/internal/logger"
	"github.com/example/vocabbot/pkg/models"
)

func record(id string, answers int) *models.UserRecord {
	return &models.UserRecord{UserID: id, Name: id, AnswerCount: answers, Scores: map[string]int{"w": answers % 5}}
}

func TestEnqueueCoalescesPerUser(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 4, time.Second)

	require.True(t, w.Enqueue(record("u1", 1)))
	require.True(t, w.Enqueue(record("u1", 2)))
	require.True(t, w.Enqueue(record("u2", 1)))
	assert.Equal(t, 2, w.Pending())

	w.Drain(context.Background())
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 2, store.Saves())

	rec, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.AnswerCount, "newest snapshot wins")
}

func TestEnqueueFullQueue(t *testing.T) {
	w := NewWriter(NewMemoryStore(), logger.Nop(), 1, time.Second)
	assert.True(t, w.Enqueue(record("u1", 1)))
	assert.False(t, w.Enqueue(record("u2", 1)))
}

func TestFailedWriteReportsUser(t *testing.T) {
	store := NewMemoryStore()
	store.SetErr(errors.New("unreachable"))
	w := NewWriter(store, logger.Nop(), 4, time.Second)

	var mu sync.Mutex
	var failed []string
	w.OnFailure(func(id string) {
		mu.Lock()
		failed = append(failed, id)
		mu.Unlock()
	})

	w.Enqueue(record("u1", 5))
	w.Drain(context.Background())
	assert.Equal(t, []string{"u1"}, failed)
	assert.Equal(t, 0, store.Saves())
}

func TestRunDrainsOnShutdown(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 16, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		w.Enqueue(record(string(rune('a'+i)), i))
	}
	cancel()
	<-done

	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 5, store.Saves())
}

func TestMemoryStoreMergesScores(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: "u", Scores: map[string]int{"a": 0, "b": 3}}))
	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: "u", Scores: map[string]int{"b": 4}}))

	rec, err := store.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 4}, rec.Scores)
}

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabbot/internal/logger"
)

type countingFlusher struct{ calls atomic.Int32 }

func (f *countingFlusher) FlushDirty(context.Context) int {
	f.calls.Add(1)
	return 1
}

type recordingPruner struct {
	cutoff time.Time
	err    error
}

func (p *recordingPruner) PruneRewards(_ context.Context, cutoff time.Time) error {
	p.cutoff = cutoff
	return p.err
}

func TestPruneUsesRewardPeriod(t *testing.T) {
	pruner := &recordingPruner{}
	s := New(&countingFlusher{}, pruner, logger.Nop(), time.Second, 7*24*time.Hour)
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.prune()
	assert.Equal(t, time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), pruner.cutoff)

	pruner.err = errors.New("down")
	assert.NotPanics(t, s.prune)
}

func TestRunFlushesPeriodically(t *testing.T) {
	flusher := &countingFlusher{}
	s := New(flusher, &recordingPruner{}, logger.Nop(), 50*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return flusher.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestDefaultFlushInterval(t *testing.T) {
	s := New(&countingFlusher{}, &recordingPruner{}, logger.Nop(), 0, time.Hour)
	assert.Equal(t, DefaultFlushInterval, s.flushInterval)
}

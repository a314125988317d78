package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabbot/internal/logger"
)

// Default job intervals
const (
	DefaultFlushInterval = 30 * time.Second
	DefaultPruneInterval = time.Hour
)

// Flusher enqueues snapshots of learners with unsaved changes
type Flusher interface {
	FlushDirty(ctx context.Context) int
}

// Pruner hides reward totals from finished periods
type Pruner interface {
	PruneRewards(ctx context.Context, cutoff time.Time) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	flusher   Flusher
	pruner    Pruner
	log       *logger.Logger

	flushInterval time.Duration
	pruneInterval time.Duration
	rewardPeriod  time.Duration
	now           func() time.Time
}

// New creates a new scheduler instance. rewardPeriod is how long a reward
// total counts towards the leaderboard.
func New(flusher Flusher, pruner Pruner, log *logger.Logger, flushInterval, rewardPeriod time.Duration) *Scheduler {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &Scheduler{
		scheduler:     gocron.NewScheduler(time.UTC),
		flusher:       flusher,
		pruner:        pruner,
		log:           log.With("service", "Scheduler"),
		flushInterval: flushInterval,
		pruneInterval: DefaultPruneInterval,
		rewardPeriod:  rewardPeriod,
		now:           time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.flushInterval).Do(s.flush); err != nil {
		return err
	}
	if _, err := s.scheduler.Every(s.pruneInterval).Do(s.prune); err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Run starts the jobs and stops them when ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.flushInterval)
	defer cancel()
	if n := s.flusher.FlushDirty(ctx); n > 0 {
		s.log.Debug("flushed dirty learners", "count", n)
	}
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cutoff := s.now().Add(-s.rewardPeriod)
	if err := s.pruner.PruneRewards(ctx, cutoff); err != nil {
		s.log.Error("failed to prune rewards", "cutoff", cutoff, "error", err)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/vocabbot/internal/bot"
	"github.com/example/vocabbot/internal/config"
	"github.com/example/vocabbot/internal/corpus"
	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/engine"
	"github.com/example/vocabbot/internal/logger"
	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/internal/persist"
	"github.com/example/vocabbot/internal/reward"
	"github.com/example/vocabbot/internal/scheduler"
)

const (
	writerQueueSize = 1024
	storeTimeout    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, resolveCorpusPath(cmd, cfg.CorpusPath), log)
	},
}

func openStore(ctx context.Context, cfg *config.Config) (persist.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return database.NewRedisStore(ctx, cfg.RedisAddr)
	default:
		db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return database.NewLearnerRepository(db), nil
	}
}

func serve(ctx context.Context, cfg *config.Config, corpusPath string, log *logger.Logger) error {
	words, result, err := corpus.Load(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	log.Info("corpus loaded", "path", corpusPath, "ranges", len(words.Ranges()),
		"words", result.Imported, "skipped", result.Skipped)
	for _, key := range words.EmptyRanges() {
		log.Warn("range has no words", "range", key)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	grader := mastery.NewGrader()
	grader.Policy = cfg.MissPolicy
	tuning := engine.DefaultTuning()
	tuning.SaveEvery = cfg.SaveEvery
	rewards := reward.DefaultTable()

	writer := persist.NewWriter(store, log, writerQueueSize, storeTimeout)
	eng := engine.New(words, store, writer, log,
		engine.WithGrader(grader),
		engine.WithRewards(rewards),
		engine.WithTuning(tuning),
	)

	b, err := bot.New(cfg.TelegramToken, eng, log, bot.DefaultConfig())
	if err != nil {
		return err
	}
	sched := scheduler.New(eng, store, log, cfg.FlushInterval, rewards.Period)

	writerCtx, stopWriter := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Start(gctx) })
	g.Go(func() error { return sched.Run(gctx) })

	writerDone := make(chan error, 1)
	go func() { writerDone <- writer.Run(writerCtx) }()

	log.Info("bot started")
	err = g.Wait()

	// Everything still in memory goes out before the store closes
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	n := eng.FlushDirty(drainCtx)
	stopWriter()
	<-writerDone
	log.Info("bot stopped", "flushed", n)
	return err
}

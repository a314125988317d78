package engine

import (
	"context"
	"sync"

	"github.com/example/vocabbot/internal/corpus"
	"github.com/example/vocabbot/internal/logger"
	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/internal/persist"
	"github.com/example/vocabbot/internal/ranking"
	"github.com/example/vocabbot/internal/reward"
	"github.com/example/vocabbot/pkg/models"
)

// Engine decides what each learner sees next and keeps score. All state of a
// learner is mutated under that learner's lock; different learners proceed
// in parallel.
type Engine struct {
	corpus  *corpus.Corpus
	sampler *mastery.Sampler
	grader  *mastery.Grader
	rewards *reward.Table
	board   *ranking.Board
	store   persist.Store
	writer  *persist.Writer
	clock   Clock
	rng     Rand
	tuning  Tuning
	log     *logger.Logger

	mu          sync.Mutex
	users       map[string]*userEntry
	emptyLogged map[string]bool
}

// userEntry guards one learner's state
type userEntry struct {
	mu     sync.Mutex
	loaded bool
	dirty  bool
	state  *UserState
}

// Option customises an Engine
type Option func(*Engine)

func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

func WithSampler(s *mastery.Sampler) Option { return func(e *Engine) { e.sampler = s } }

func WithGrader(g *mastery.Grader) Option { return func(e *Engine) { e.grader = g } }

func WithRewards(t *reward.Table) Option { return func(e *Engine) { e.rewards = t } }

func WithTuning(t Tuning) Option { return func(e *Engine) { e.tuning = t } }

// New creates an engine over corpus c. Snapshots go to store through writer.
func New(c *corpus.Corpus, store persist.Store, writer *persist.Writer, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		corpus:      c,
		sampler:     mastery.NewSampler(),
		grader:      mastery.NewGrader(),
		rewards:     reward.DefaultTable(),
		board:       ranking.NewBoard(store),
		store:       store,
		writer:      writer,
		clock:       systemClock{},
		tuning:      DefaultTuning(),
		log:         log.With("service", "Engine"),
		users:       make(map[string]*userEntry),
		emptyLogged: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(e.clock.Now().UnixNano())
	}
	writer.OnFailure(e.markDirty)
	return e
}

// acquire returns the learner's entry locked, loading it from the store on
// first use in this process. An absent record starts neutral. A failed load
// also starts neutral but is retried on the next call, and nothing is saved
// for the learner until a load succeeds.
func (e *Engine) acquire(ctx context.Context, userID string) *userEntry {
	e.mu.Lock()
	ent, ok := e.users[userID]
	if !ok {
		ent = &userEntry{}
		e.users[userID] = ent
	}
	e.mu.Unlock()

	ent.mu.Lock()
	if !ent.loaded {
		e.load(ctx, userID, ent)
	}
	return ent
}

// load fills ent from the store. The caller holds ent.mu.
func (e *Engine) load(ctx context.Context, userID string, ent *userEntry) {
	loadCtx, cancel := context.WithTimeout(ctx, e.tuning.StoreTimeout)
	defer cancel()

	rec, err := e.store.Get(loadCtx, userID)
	if err != nil {
		e.log.Error("failed to load user state, retrying on next message", "user_id", userID, "error", err)
		if ent.state == nil {
			ent.state = newUserState(e.tuning.DefaultName)
		}
		return
	}

	st := newUserState(e.tuning.DefaultName)
	if rec != nil {
		st = stateFromRecord(rec, e.tuning.DefaultName)
	}
	// Keep a question opened while the store was unreachable
	if ent.state != nil {
		st.session = ent.state.session
	}
	ent.state = st
	ent.loaded = true
	ent.dirty = false
}

// persistLocked enqueues a snapshot taken now. The caller holds ent.mu.
// Learners whose record could not be loaded are never written.
func (e *Engine) persistLocked(userID string, ent *userEntry) bool {
	if !ent.loaded {
		ent.dirty = true
		return false
	}
	st := ent.state
	now := e.clock.Now()
	st.TotalRate = e.totalRate(st)
	st.Ledger.Roll(now, e.rewards.Period)
	if e.writer.Enqueue(st.Snapshot(userID, now)) {
		ent.dirty = false
		return true
	}
	ent.dirty = true
	return false
}

// markDirty flags a learner for the next scheduled flush
func (e *Engine) markDirty(userID string) {
	e.mu.Lock()
	ent, ok := e.users[userID]
	e.mu.Unlock()
	if !ok {
		return
	}
	ent.mu.Lock()
	ent.dirty = true
	ent.mu.Unlock()
}

// FlushDirty enqueues a snapshot of every learner changed since their last
// successful enqueue. It returns how many were enqueued.
func (e *Engine) FlushDirty(ctx context.Context) int {
	e.mu.Lock()
	ids := make([]string, 0, len(e.users))
	entries := make([]*userEntry, 0, len(e.users))
	for id, ent := range e.users {
		ids = append(ids, id)
		entries = append(entries, ent)
	}
	e.mu.Unlock()

	n := 0
	for i, ent := range entries {
		if ctx.Err() != nil {
			break
		}
		ent.mu.Lock()
		if ent.loaded && ent.dirty && e.persistLocked(ids[i], ent) {
			n++
		}
		ent.mu.Unlock()
	}
	return n
}

// NextItem draws the next item of rangeKey for the learner
func (e *Engine) NextItem(ctx context.Context, userID, rangeKey string) (models.Item, error) {
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	return e.nextItem(ent.state, rangeKey)
}

// OpenSession presents item to the learner, replacing any open question
func (e *Engine) OpenSession(ctx context.Context, userID, rangeKey string, item models.Item) Session {
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	choices := e.corpus.Choices(item, rangeKey, e.tuning.Distractors, e.rng)
	ent.state.OpenSession(rangeKey, item, choices, e.clock.Now())
	sess, _ := ent.state.PendingSession()
	return sess
}

// CloseSession returns and clears the learner's open question
func (e *Engine) CloseSession(ctx context.Context, userID string) (Session, error) {
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	return ent.state.CloseSession()
}

// MasteryRate rates the learner on a static range
func (e *Engine) MasteryRate(ctx context.Context, userID, rangeKey string) (int, error) {
	r, ok := e.corpus.Range(rangeKey)
	if !ok {
		return 0, ErrUnknownRange
	}
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	return ranking.MasteryRate(r.Items, ent.state.Score), nil
}

// TotalRate is the mean of the learner's rates over every static range
func (e *Engine) TotalRate(ctx context.Context, userID string) float64 {
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	return e.totalRate(ent.state)
}

// Leaderboard reads the topN users by metric from the store. It takes no
// learner locks and may lag behind in-memory state.
func (e *Engine) Leaderboard(ctx context.Context, topN int, metric models.Metric) ([]models.LeaderboardRow, error) {
	return e.board.Top(ctx, topN, metric)
}

// Snapshot returns the learner's current state as a record
func (e *Engine) Snapshot(ctx context.Context, userID string) *models.UserRecord {
	ent := e.acquire(ctx, userID)
	defer ent.mu.Unlock()
	ent.state.TotalRate = e.totalRate(ent.state)
	return ent.state.Snapshot(userID, e.clock.Now())
}

func (e *Engine) rangeRatings(st *UserState) []RangeRating {
	ranges := e.corpus.Ranges()
	out := make([]RangeRating, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, RangeRating{
			Key:    r.Key,
			Title:  r.Title,
			Rating: ranking.MasteryRate(r.Items, st.Score),
		})
	}
	return out
}

func (e *Engine) totalRate(st *UserState) float64 {
	ratings := e.rangeRatings(st)
	rates := make([]int, len(ratings))
	for i, r := range ratings {
		rates[i] = r.Rating
	}
	return ranking.TotalRate(rates)
}

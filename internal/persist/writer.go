package persist

import (
	"context"
	"sync"
	"time"

	"github.com/example/vocabbot/internal/logger"
	"github.com/example/vocabbot/pkg/models"
)

// Writer persists snapshots on a single background goroutine. Snapshots for
// the same user that pile up before the worker gets to them are coalesced,
// so only the newest one is written.
type Writer struct {
	store   Store
	log     *logger.Logger
	timeout time.Duration

	queue chan string

	mu        sync.Mutex
	pending   map[string]*models.UserRecord
	onFailure func(userID string)
}

// NewWriter creates a writer with room for queueSize distinct users
func NewWriter(store Store, log *logger.Logger, queueSize int, timeout time.Duration) *Writer {
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Writer{
		store:   store,
		log:     log.With("service", "PersistWriter"),
		timeout: timeout,
		queue:   make(chan string, queueSize),
		pending: make(map[string]*models.UserRecord),
	}
}

// OnFailure registers a callback run after a failed write, so the caller can
// retry on its next scheduled flush
func (w *Writer) OnFailure(fn func(userID string)) {
	w.mu.Lock()
	w.onFailure = fn
	w.mu.Unlock()
}

// Enqueue hands rec to the worker without blocking. It returns false when
// the queue is full; the snapshot is then dropped and must be retried.
func (w *Writer) Enqueue(rec *models.UserRecord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, queued := w.pending[rec.UserID]; queued {
		w.pending[rec.UserID] = rec
		return true
	}

	select {
	case w.queue <- rec.UserID:
		w.pending[rec.UserID] = rec
		return true
	default:
		w.log.Warn("persist queue full, deferring save", "user_id", rec.UserID)
		return false
	}
}

// Run writes queued snapshots until ctx is done, then drains what is left
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.Drain(context.Background())
			return nil
		case userID := <-w.queue:
			w.write(ctx, userID)
		}
	}
}

// Drain writes every queued snapshot synchronously
func (w *Writer) Drain(ctx context.Context) {
	for {
		select {
		case userID := <-w.queue:
			w.write(ctx, userID)
		default:
			return
		}
	}
}

// Pending reports how many users have a snapshot waiting
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *Writer) write(ctx context.Context, userID string) {
	w.mu.Lock()
	rec, ok := w.pending[userID]
	delete(w.pending, userID)
	onFailure := w.onFailure
	w.mu.Unlock()
	if !ok {
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.store.Save(saveCtx, rec); err != nil {
		w.log.Error("failed to save user state", "user_id", userID, "error", err)
		if onFailure != nil {
			onFailure(userID)
		}
		return
	}
	w.log.Debug("saved user state", "user_id", userID, "answers", rec.AnswerCount)
}

package persist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/vocabbot/pkg/models"
)

// MemoryStore keeps records in process. It backs local runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.UserRecord
	// Err, when set, is returned by every call
	Err   error
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.UserRecord)}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*models.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStore) Save(_ context.Context, rec *models.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.saves++

	merged := cloneRecord(rec)
	if old, ok := m.records[rec.UserID]; ok {
		for k, v := range old.Scores {
			if _, set := merged.Scores[k]; !set {
				merged.Scores[k] = v
			}
		}
	}
	m.records[rec.UserID] = merged
	return nil
}

func (m *MemoryStore) Leaderboard(_ context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	rows := make([]models.LeaderboardRow, 0, len(m.records))
	for _, rec := range m.records {
		row := models.LeaderboardRow{UserID: rec.UserID, Name: rec.Name}
		switch metric {
		case models.MetricReward:
			if rec.RewardTotal <= 0 {
				continue
			}
			row.Value = float64(rec.RewardTotal)
		default:
			row.Value = rec.TotalRate
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].UserID < rows[j].UserID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MemoryStore) PruneRewards(_ context.Context, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, rec := range m.records {
		if rec.RewardPeriodStart.Before(cutoff) {
			rec.RewardTotal = 0
		}
	}
	return nil
}

// Saves counts successful Save calls
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	m.Err = err
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error { return nil }

func cloneRecord(rec *models.UserRecord) *models.UserRecord {
	out := *rec
	out.Scores = make(map[string]int, len(rec.Scores))
	for k, v := range rec.Scores {
		out.Scores[k] = v
	}
	out.Recent = append([]string(nil), rec.Recent...)
	return &out
}

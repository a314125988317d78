package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/vocabbot/pkg/models"
)

const (
	boardRateKey   = "board:rate"
	boardRewardKey = "board:reward"
	// rewardPeriodKey scores every learner with a reward by period start, for pruning
	rewardPeriodKey = "board:reward_period"
)

func learnerKey(userID string) string { return "learner:" + userID }
func scoresKey(userID string) string  { return "learner:" + userID + ":scores" }

// RedisStore keeps learners in Redis hashes and the leaderboards in sorted sets
type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore connects to addr and checks the server answers
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *goredis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	pipe := s.rdb.Pipeline()
	fieldsCmd := pipe.HGetAll(ctx, learnerKey(userID))
	scoresCmd := pipe.HGetAll(ctx, scoresKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis get learner: %w", err)
	}

	fields := fieldsCmd.Val()
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &models.UserRecord{
		UserID: userID,
		Name:   fields["name"],
		Scores: make(map[string]int, len(scoresCmd.Val())),
		Fever:  fields["fever"] == "1",
	}
	var err error
	if rec.Streak, err = atoiField(fields, "streak"); err != nil {
		return nil, err
	}
	if rec.AnswerCount, err = atoiField(fields, "answer_count"); err != nil {
		return nil, err
	}
	if v := fields["reward_total"]; v != "" {
		if rec.RewardTotal, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("parse reward_total: %w", err)
		}
	}
	if v := fields["total_rate"]; v != "" {
		if rec.TotalRate, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("parse total_rate: %w", err)
		}
	}
	if rec.RewardPeriodStart, err = timeField(fields, "reward_period_start"); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = timeField(fields, "updated_at"); err != nil {
		return nil, err
	}
	if v := fields["recent"]; v != "" {
		if err := json.Unmarshal([]byte(v), &rec.Recent); err != nil {
			return nil, fmt.Errorf("parse recent history: %w", err)
		}
	}
	for item, raw := range scoresCmd.Val() {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse score for %q: %w", item, err)
		}
		rec.Scores[item] = score
	}
	return rec, nil
}

// Save writes rec in a single transaction. Scores are merged field by field.
func (s *RedisStore) Save(ctx context.Context, rec *models.UserRecord) error {
	recent, err := json.Marshal(rec.Recent)
	if err != nil {
		return fmt.Errorf("marshal recent history: %w", err)
	}

	fever := "0"
	if rec.Fever {
		fever = "1"
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, learnerKey(rec.UserID), map[string]interface{}{
			"name":                rec.Name,
			"recent":              string(recent),
			"streak":              rec.Streak,
			"fever":               fever,
			"reward_total":        rec.RewardTotal,
			"reward_period_start": rec.RewardPeriodStart.UTC().Format(time.RFC3339Nano),
			"total_rate":          strconv.FormatFloat(rec.TotalRate, 'f', -1, 64),
			"answer_count":        rec.AnswerCount,
			"updated_at":          rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
		if len(rec.Scores) > 0 {
			scores := make(map[string]interface{}, len(rec.Scores))
			for item, score := range rec.Scores {
				scores[item] = score
			}
			pipe.HSet(ctx, scoresKey(rec.UserID), scores)
		}

		pipe.ZAdd(ctx, boardRateKey, goredis.Z{Score: rec.TotalRate, Member: rec.UserID})
		if rec.RewardTotal > 0 {
			pipe.ZAdd(ctx, boardRewardKey, goredis.Z{Score: float64(rec.RewardTotal), Member: rec.UserID})
			pipe.ZAdd(ctx, rewardPeriodKey, goredis.Z{Score: float64(rec.RewardPeriodStart.Unix()), Member: rec.UserID})
		} else {
			pipe.ZRem(ctx, boardRewardKey, rec.UserID)
			pipe.ZRem(ctx, rewardPeriodKey, rec.UserID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save learner: %w", err)
	}
	return nil
}

func (s *RedisStore) Leaderboard(ctx context.Context, metric models.Metric, limit int) ([]models.LeaderboardRow, error) {
	var key string
	switch metric {
	case models.MetricRate:
		key = boardRateKey
	case models.MetricReward:
		key = boardRewardKey
	default:
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}
	if limit <= 0 {
		return nil, nil
	}

	top, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read %s leaderboard: %w", metric, err)
	}
	if len(top) == 0 {
		return nil, nil
	}

	pipe := s.rdb.Pipeline()
	names := make([]*goredis.StringCmd, len(top))
	for i, z := range top {
		names[i] = pipe.HGet(ctx, learnerKey(fmt.Sprint(z.Member)), "name")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("redis read leaderboard names: %w", err)
	}

	rows := make([]models.LeaderboardRow, len(top))
	for i, z := range top {
		rows[i] = models.LeaderboardRow{
			UserID: fmt.Sprint(z.Member),
			Name:   names[i].Val(),
			Value:  z.Score,
		}
	}
	return rows, nil
}

// PruneRewards drops learners whose reward period started before cutoff from
// the reward board and zeroes their stored total
func (s *RedisStore) PruneRewards(ctx context.Context, cutoff time.Time) error {
	stale, err := s.rdb.ZRangeByScore(ctx, rewardPeriodKey, &goredis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return fmt.Errorf("redis find stale rewards: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, userID := range stale {
			pipe.ZRem(ctx, boardRewardKey, userID)
			pipe.ZRem(ctx, rewardPeriodKey, userID)
			pipe.HSet(ctx, learnerKey(userID), "reward_total", 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis prune rewards: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func atoiField(fields map[string]string, name string) (int, error) {
	v := fields[name]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}

func timeField(fields map[string]string, name string) (time.Time, error) {
	v := fields[name]
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/internal/ranking"
	"github.com/example/vocabbot/pkg/models"
)

// Handle is the single entry point for an incoming chat message. It never
// fails: every problem is turned into a Notice for the learner.
func (e *Engine) Handle(ctx context.Context, userID, text string) []Payload {
	msg := strings.TrimSpace(text)

	ent := e.acquire(ctx, userID)
	st := ent.state
	now := e.clock.Now()

	// A presented choice is always an answer, even when it reads like a command
	if sess, ok := st.PendingSession(); ok && checkChoice(sess, msg) == nil {
		defer ent.mu.Unlock()
		return e.answer(userID, ent, msg, now)
	}

	// Rankings come from the store and need no learner lock
	if msg == CommandRanking {
		ent.mu.Unlock()
		return e.rankings(ctx)
	}

	defer ent.mu.Unlock()
	switch {
	case strings.HasPrefix(msg, renamePrefix):
		return e.rename(userID, ent, strings.TrimPrefix(msg, renamePrefix))
	case msg == CommandLearn:
		return []Payload{e.menu()}
	case msg == CommandStats:
		before := st.TotalRate
		stats := e.stats(st)
		if stats.TotalRating != before {
			ent.dirty = true
		}
		return []Payload{stats}
	case e.isRange(msg):
		return e.ask(st, msg, now)
	default:
		return e.answer(userID, ent, msg, now)
	}
}

func (e *Engine) isRange(key string) bool {
	if key == ReviewRange {
		return true
	}
	_, ok := e.corpus.Range(key)
	return ok
}

// itemsFor resolves a range key to the items eligible for the learner
func (e *Engine) itemsFor(st *UserState, rangeKey string) ([]models.Item, bool, error) {
	if rangeKey == ReviewRange {
		var missed []models.Item
		for _, it := range e.corpus.All() {
			if st.Seen(it.Answer) && st.Score(it.Answer) == mastery.MinScore {
				missed = append(missed, it)
			}
		}
		return missed, true, nil
	}
	r, ok := e.corpus.Range(rangeKey)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownRange, rangeKey)
	}
	return r.Items, false, nil
}

func (e *Engine) nextItem(st *UserState, rangeKey string) (models.Item, error) {
	items, review, err := e.itemsFor(st, rangeKey)
	if err != nil {
		return models.Item{}, err
	}
	if len(items) == 0 {
		if review {
			return models.Item{}, ErrNothingToShow
		}
		return models.Item{}, fmt.Errorf("%w: %q", ErrEmptyPool, rangeKey)
	}
	return e.sampler.Next(items, st.Score, st.Recent, e.rng)
}

// ask draws and opens the next question of rangeKey
func (e *Engine) ask(st *UserState, rangeKey string, now time.Time) []Payload {
	item, err := e.nextItem(st, rangeKey)
	if err != nil {
		return []Payload{e.notice(rangeKey, err)}
	}
	choices := e.corpus.Choices(item, rangeKey, e.tuning.Distractors, e.rng)
	st.OpenSession(rangeKey, item, choices, now)

	sess, _ := st.PendingSession()
	return []Payload{e.question(st, sess)}
}

func (e *Engine) question(st *UserState, sess Session) Question {
	q := Question{
		RangeKey: sess.RangeKey,
		Text:     sess.Item.Prompt,
		Choices:  sess.Choices,
		Score:    st.Score(sess.Item.Answer),
		Seen:     st.Seen(sess.Item.Answer),
		Review:   sess.RangeKey == ReviewRange,
	}
	items, review, err := e.itemsFor(st, sess.RangeKey)
	if err == nil {
		if review {
			q.Remaining = len(items)
		} else {
			for _, it := range items {
				if !st.Seen(it.Answer) {
					q.Remaining++
				}
			}
		}
	}
	return q
}

// answer grades msg against the open question and asks the next one
func (e *Engine) answer(userID string, ent *userEntry, msg string, now time.Time) []Payload {
	st := ent.state
	pending, ok := st.PendingSession()
	if !ok {
		return []Payload{e.notice("", ErrNoPendingSession)}
	}
	if err := checkChoice(pending, msg); err != nil {
		return []Payload{
			Notice{Kind: NoticeInvalidChoice, Detail: err.Error()},
			e.question(st, pending),
		}
	}

	sess, err := st.CloseSession()
	if err != nil {
		return []Payload{e.notice("", err)}
	}

	answer := sess.Item.Answer
	prior := st.Score(answer)
	res := e.grader.Grade(msg, answer, prior, st.Streak, now.Sub(sess.StartedAt))
	st.SetScore(answer, res.Score)
	st.Streak = res.Streak

	fb := Feedback{
		Correct:    res.Correct,
		Tier:       res.Tier,
		Answer:     answer,
		Meaning:    sess.Item.Meaning,
		PriorScore: prior,
		Score:      res.Score,
		Elapsed:    res.Elapsed,
		Streak:     st.Streak,
	}
	if res.Correct {
		st.Fever = e.rewards.NextFever(st.Fever, e.rng)
		b := e.rewards.Points(res.Tier, prior, st.Streak, st.Fever)
		if st.Ledger.Add(now, e.rewards.Period, b.Points) {
			e.log.Debug("reward period rolled over", "user_id", userID)
		}
		fb.TierPoints = b.Base
		fb.MasteryFactor = b.MasteryFactor
		fb.Points = b.Points
		fb.Fever = b.Fever
	}
	fb.PeriodTotal = st.Ledger.Total

	st.AnswerCount++
	ent.dirty = true
	if e.tuning.SaveEvery > 0 && st.AnswerCount%e.tuning.SaveEvery == 0 {
		e.persistLocked(userID, ent)
	}

	out := []Payload{fb}
	if e.tuning.TipEvery > 0 && st.AnswerCount%e.tuning.TipEvery == 0 && len(tips) > 0 {
		out = append(out, Tip{Text: tips[int(e.rng.Float64()*float64(len(tips)))%len(tips)]})
	}
	return append(out, e.ask(st, sess.RangeKey, now)...)
}

// checkChoice accepts only text matching one of the presented choices
func checkChoice(sess Session, msg string) error {
	for _, c := range sess.Choices {
		if mastery.Matches(msg, c) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of the choices", ErrInvalidInput, msg)
}

func (e *Engine) rename(userID string, ent *userEntry, raw string) []Payload {
	name, err := validateName(raw, e.tuning.NameMaxLen)
	if err != nil {
		return []Payload{Notice{Kind: NoticeInvalidName, Detail: err.Error()}}
	}
	ent.state.Name = name
	ent.dirty = true
	e.persistLocked(userID, ent)
	return []Payload{Notice{Kind: NoticeNameChanged, Detail: name}}
}

func validateName(raw string, maxLen int) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(name); n > maxLen {
		return "", fmt.Errorf("%w: name is %d characters, at most %d allowed", ErrInvalidInput, n, maxLen)
	}
	return name, nil
}

func (e *Engine) menu() Menu {
	ranges := e.corpus.Ranges()
	m := Menu{Options: make([]MenuOption, 0, len(ranges)+1)}
	for _, r := range ranges {
		m.Options = append(m.Options, MenuOption{Key: r.Key, Title: r.Title})
	}
	m.Options = append(m.Options, MenuOption{Key: ReviewRange, Title: "Missed words"})
	return m
}

func (e *Engine) stats(st *UserState) Stats {
	ratings := e.rangeRatings(st)
	rates := make([]int, len(ratings))
	for i, r := range ratings {
		rates[i] = r.Rating
	}
	st.TotalRate = ranking.TotalRate(rates)
	return Stats{
		Name:         st.Name,
		Ranges:       ratings,
		TotalRating:  st.TotalRate,
		Distribution: ranking.Distribution(e.corpus.All(), st.Score),
	}
}

func (e *Engine) rankings(ctx context.Context) []Payload {
	out := make([]Payload, 0, 2)
	boards := []struct {
		metric models.Metric
		size   int
	}{
		{models.MetricReward, e.tuning.RewardBoardSize},
		{models.MetricRate, e.tuning.RateBoardSize},
	}
	for _, b := range boards {
		rows, err := e.Leaderboard(ctx, b.size, b.metric)
		if err != nil {
			e.log.Error("failed to read leaderboard", "metric", b.metric, "error", err)
			return []Payload{Notice{Kind: NoticeUnavailable}}
		}
		out = append(out, Leaderboard{Metric: b.metric, Rows: rows})
	}
	return out
}

// notice converts an engine error into the reply the learner sees
func (e *Engine) notice(rangeKey string, err error) Notice {
	switch {
	case errors.Is(err, ErrNothingToShow):
		return Notice{Kind: NoticeNothingToShow}
	case errors.Is(err, ErrEmptyPool):
		e.mu.Lock()
		first := !e.emptyLogged[rangeKey]
		e.emptyLogged[rangeKey] = true
		e.mu.Unlock()
		if first {
			e.log.Error("range has no items", "range", rangeKey)
		}
		return Notice{Kind: NoticeEmptyPool, Detail: rangeKey}
	case errors.Is(err, ErrNoPendingSession):
		return Notice{Kind: NoticeNoPendingSession}
	default:
		e.log.Warn("unexpected engine error", "range", rangeKey, "error", err)
		return Notice{Kind: NoticeUnavailable}
	}
}

package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbot/internal/engine"
	"github.com/example/vocabbot/internal/logger"
	"github.com/example/vocabbot/internal/mastery"
	"github.com/example/vocabbot/pkg/models"
)

func TestRenderQuestion(t *testing.T) {
	replies := Render(engine.Question{
		RangeKey: "A1", Text: "a round fruit", Choices: []string{"apple", "pear"},
		Score: 2, Seen: true, Remaining: 4,
	})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "a round fruit")
	assert.Contains(t, replies[0].Text, "✓✓")
	assert.Contains(t, replies[0].Text, "4 new left")
	assert.Equal(t, []string{"apple", "pear"}, replies[0].Choices)
}

func TestRenderFeedback(t *testing.T) {
	correct := Render(engine.Feedback{
		Correct: true, Tier: mastery.TierCorrect, Answer: "apple", PriorScore: 1, Score: 2,
		Elapsed: 9 * time.Second, Streak: 3, TierPoints: 1, MasteryFactor: 4, Points: 108, PeriodTotal: 144,
	})[0].Text
	assert.Contains(t, correct, "+108 points")
	assert.Contains(t, correct, "this week 144")
	assert.NotContains(t, correct, "FEVER")

	wrong := Render(engine.Feedback{Answer: "apple", PriorScore: 2})[0].Text
	assert.Contains(t, wrong, "The answer was apple")
	assert.NotContains(t, wrong, "points")
}

func TestRenderLeaderboard(t *testing.T) {
	text := Render(engine.Leaderboard{
		Metric: models.MetricRate,
		Rows:   []models.LeaderboardRow{{Rank: 1, UserID: "7", Name: "Ann", Value: 4375}},
	})[0].Text
	assert.Contains(t, text, "1. Ann 43.75%")

	empty := Render(engine.Leaderboard{Metric: models.MetricReward})[0].Text
	assert.Contains(t, empty, "Nobody yet")
}

func TestRenderMenu(t *testing.T) {
	r := Render(engine.Menu{Options: []engine.MenuOption{{Key: "A1", Title: "Basics"}, {Key: "WRONG", Title: "Missed"}}})[0]
	require.Len(t, r.Buttons, 2)
	assert.Equal(t, MenuButton{Text: "Basics", CallbackData: "A1"}, r.Buttons[0][0])
}

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type echoHandler struct {
	gotUser, gotText string
}

func (h *echoHandler) Handle(_ context.Context, userID, text string) []engine.Payload {
	h.gotUser, h.gotText = userID, text
	return []engine.Payload{engine.Notice{Kind: engine.NoticeNoPendingSession}}
}

func TestHandleUpdateMapsCommands(t *testing.T) {
	api := &fakeSender{}
	h := &echoHandler{}
	b := newBot(api, h, logger.Nop(), nil)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 99},
		Chat:     &tgbotapi.Chat{ID: 5},
		Text:     "/stats",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}})
	assert.Equal(t, "99", h.gotUser)
	assert.Equal(t, engine.CommandStats, h.gotText)
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(5), api.sent[0].ChatID)

	b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 99},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}},
		Data:    "A1",
	}})
	assert.Equal(t, "A1", h.gotText)
}

func TestStartStopsWithContext(t *testing.T) {
	b := newBot(&fakeSender{}, &echoHandler{}, logger.Nop(), nil)
	updates := make(chan tgbotapi.Update)
	b.updates = func() tgbotapi.UpdatesChannel { return updates }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop")
	}
}

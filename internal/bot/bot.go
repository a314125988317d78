package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabbot/internal/engine"
	"github.com/example/vocabbot/internal/logger"
)

// Handler turns one learner message into replies
type Handler interface {
	Handle(ctx context.Context, userID, text string) []engine.Payload
}

// sender is the part of the Telegram API the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates an inline keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// createReplyKeyboard shows choices as buttons that send their text back
func createReplyKeyboard(choices []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(c)))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

// Bot is the Telegram transport in front of the engine
type Bot struct {
	api     sender
	handler Handler
	log     *logger.Logger
	config  *BotConfig

	updates func() tgbotapi.UpdatesChannel
	stop    func()
	wg      sync.WaitGroup
}

// New creates a bot talking to Telegram with token
func New(token string, handler Handler, log *logger.Logger, config *BotConfig) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}

	b := newBot(botAPI, handler, log, config)
	b.log.Info("authorized on account", "username", botAPI.Self.UserName)
	b.updates = func() tgbotapi.UpdatesChannel {
		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = b.config.UpdateTimeout
		return botAPI.GetUpdatesChan(updateConfig)
	}
	b.stop = botAPI.StopReceivingUpdates
	return b, nil
}

func newBot(api sender, handler Handler, log *logger.Logger, config *BotConfig) *Bot {
	if config == nil {
		config = DefaultConfig()
	}
	return &Bot{
		api:     api,
		handler: handler,
		log:     log.With("service", "TelegramBot"),
		config:  config,
		stop:    func() {},
	}
}

// Start handles incoming updates until ctx is done, then waits for the
// updates in flight
func (b *Bot) Start(ctx context.Context) error {
	if b.updates == nil {
		return fmt.Errorf("bot has no update source")
	}
	go func() {
		<-ctx.Done()
		b.stop()
	}()
	b.consume(ctx, b.updates())
	b.wg.Wait()
	b.log.Info("bot stopped")
	return nil
}

func (b *Bot) consume(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	workers := make(chan struct{}, max(1, b.config.Workers))
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			workers <- struct{}{}
			b.wg.Add(1)
			go func() {
				defer func() {
					<-workers
					b.wg.Done()
				}()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// handleUpdate routes a message or button press to the engine
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.config.HandleTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || cb.From == nil {
			return
		}
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("failed to answer callback", "error", err)
		}
		b.dispatch(handleCtx, cb.Message.Chat.ID, cb.From.ID, cb.Data)
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil {
			return
		}
		b.dispatch(handleCtx, msg.Chat.ID, msg.From.ID, commandText(msg))
	}
}

func (b *Bot) dispatch(ctx context.Context, chatID, userID int64, text string) {
	if text == "" {
		return
	}
	if text == helpCommand {
		b.send(chatID, Reply{Text: helpText})
		return
	}
	for _, p := range b.handler.Handle(ctx, strconv.FormatInt(userID, 10), text) {
		for _, r := range Render(p) {
			b.send(chatID, r)
		}
	}
}

func (b *Bot) send(chatID int64, r Reply) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case len(r.Choices) > 0:
		msg.ReplyMarkup = createReplyKeyboard(r.Choices)
	case len(r.Buttons) > 0:
		msg.ReplyMarkup = createKeyboard(r.Buttons)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

const helpCommand = "/help"

// commandText maps slash commands onto the words the engine understands
func commandText(msg *tgbotapi.Message) string {
	if !msg.IsCommand() {
		return strings.TrimSpace(msg.Text)
	}
	switch msg.Command() {
	case "start", "menu", "learn":
		return engine.CommandLearn
	case "stats":
		return engine.CommandStats
	case "ranking", "top":
		return engine.CommandRanking
	case "name":
		return "@" + strings.TrimSpace(msg.CommandArguments())
	default:
		return helpCommand
	}
}

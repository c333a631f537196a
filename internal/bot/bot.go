package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabot/internal/dictionary"
	"github.com/example/vocabot/internal/progress"
	"github.com/example/vocabot/pkg/models"
)

// ErrNoChat is returned by NotifyDue when the bot does not know where to send
var ErrNoChat = errors.New("no chat to notify: set TELEGRAM_OWNER_ID or message the bot first")

// Button is one inline keyboard button
type Button struct {
	Text         string
	CallbackData string
}

// inlineKeyboard lays out rows of buttons as a Telegram inline keyboard
func inlineKeyboard(rows [][]Button) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.InlineKeyboardButton, len(row))
		for i, btn := range row {
			line[i] = tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData)
		}
		markup = append(markup, line)
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}

// botAPI is the part of *tgbotapi.BotAPI the bot uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Progress is the learner's persisted record
type Progress interface {
	Load(ctx context.Context) (*models.Record, progress.Outcome)
	MarkSeen(ctx context.Context, word string, known bool) (*models.Record, error)
	DueWords(ctx context.Context) []string
	SetName(ctx context.Context, name string) error
}

// Sessions builds word sets and quizzes
type Sessions interface {
	GenerateWordSet(ctx context.Context, count int, level models.Level) []models.WordInfo
	GenerateQuiz(items []models.WordInfo, n int) []models.QuizQuestion
}

// Definitions looks up word content for review
type Definitions interface {
	FetchDefinition(ctx context.Context, word string) (models.WordInfo, dictionary.Outcome)
}

// Bot represents the Telegram bot application
type Bot struct {
	api      botAPI
	config   *BotConfig
	progress Progress
	sessions Sessions
	words    Definitions
	log      *slog.Logger

	sessionsMu sync.Mutex
	chats      map[int64]*chatSession
	lastChat   atomic.Int64

	wg sync.WaitGroup
}

// New connects to Telegram and creates a bot instance
func New(token string, cfg *BotConfig, p Progress, s Sessions, w Definitions, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = cfg.Debug

	b := newBot(api, cfg, p, s, w, logger)
	b.log.Info("authorized on account", slog.String("username", api.Self.UserName))
	return b, nil
}

func newBot(api botAPI, cfg *BotConfig, p Progress, s Sessions, w Definitions, logger *slog.Logger) *Bot {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Bot{
		api:      api,
		config:   cfg,
		progress: p,
		sessions: s,
		words:    w,
		log:      logger.With("component", "bot"),
		chats:    make(map[int64]*chatSession),
	}
}

// Run polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine.
func (b *Bot) Run(ctx context.Context) error {
	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	b.log.Info("bot started")

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// NotifyDue implements scheduler.Notifier. The reminder goes to the owner,
// or to the last chat that used the bot when no owner is configured.
func (b *Bot) NotifyDue(ctx context.Context, count int) error {
	chatID := b.config.OwnerID
	if chatID == 0 {
		chatID = b.lastChat.Load()
	}
	if chatID == 0 {
		return ErrNoChat
	}

	msg := tgbotapi.NewMessage(chatID, reminderText(count))
	msg.ReplyMarkup = inlineKeyboard([][]Button{
		{{Text: "🔁 Review now", CallbackData: cbReview}},
	})
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder to chat %d: %w", chatID, err)
	}

	b.log.InfoContext(ctx, "reminder sent", slog.Int64("chat_id", chatID), slog.Int("due", count))
	return nil
}

// allowed reports whether userID may use the bot
func (b *Bot) allowed(userID int64) bool {
	return b.config.OwnerID == 0 || b.config.OwnerID == userID
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || !b.allowed(msg.From.ID) {
			return
		}
		b.lastChat.Store(msg.Chat.ID)
		b.handleMessage(ctx, msg)

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil || !b.allowed(cb.From.ID) {
			return
		}
		b.lastChat.Store(cb.Message.Chat.ID)
		b.handleCallback(ctx, cb)
	}
}

// send delivers a message and logs failures
func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", slog.Int64("chat_id", msg.ChatID), slog.Any("error", err))
	}
}

// sendText sends text with an optional keyboard
func (b *Bot) sendText(chatID int64, text string, buttons [][]Button) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(buttons)
	}
	b.send(msg)
}

// answer acknowledges a callback so the client stops its spinner
func (b *Bot) answer(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.log.Warn("answer callback", slog.Any("error", err))
	}
}

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]Button {
	return [][]Button{
		{
			{Text: "📖 Study", CallbackData: cbStudy},
			{Text: "❓ Quiz", CallbackData: cbQuiz},
		},
		{
			{Text: "🔁 Review", CallbackData: cbReview},
			{Text: "📊 Dashboard", CallbackData: cbDashboard},
		},
	}
}

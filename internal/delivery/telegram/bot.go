package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

// botAPI the subset of *tgbotapi.BotAPI the handler uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Options bot runtime sozlamalari
type Options struct {
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	Workers         int
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot      botAPI
	username string
	purchase usecase.PurchaseUseCase
	log      *zap.Logger

	sessionTTL   time.Duration
	cleanupEvery time.Duration

	// Performance optimizations
	workerPool *workerPool

	// Bot start timestamp
	botStartedAt time.Time
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, purchase usecase.PurchaseUseCase, log *zap.Logger, opts Options) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newBotHandler(bot, purchase, log, opts)
	h.username = bot.Self.UserName
	return h, nil
}

func newBotHandler(bot botAPI, purchase usecase.PurchaseUseCase, log *zap.Logger, opts Options) *BotHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = constants.DefaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 15 * time.Minute
	}
	h := &BotHandler{
		bot:          bot,
		purchase:     purchase,
		log:          log,
		sessionTTL:   opts.SessionTTL,
		cleanupEvery: opts.CleanupInterval,
		botStartedAt: time.Now(),
	}
	h.workerPool = newWorkerPool(log, opts.Workers)
	return h
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *BotHandler) GetBotUsername() string {
	return h.username
}

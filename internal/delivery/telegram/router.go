package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	h.workerPool.start(ctx)
	go h.cleanupSessions(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.workerPool.shutdown()
			h.log.Info("bot stopped", zap.Duration("uptime", time.Since(h.botStartedAt).Round(time.Second)))
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.workerPool.shutdown()
				return nil
			}
			h.dispatch(update)
		}
	}
}

func (h *BotHandler) dispatch(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.From == nil {
			return
		}
		h.workerPool.submit(&job{
			userID:    cq.From.ID,
			run:       func(ctx context.Context) { h.handleCallback(ctx, cq) },
			onLimited: func() { h.answerCallback(cq.ID, "⏳ Слишком часто, подождите секунду") },
			onBusy:    func() { h.answerCallback(cq.ID, "⏳ Бот занят, попробуйте ещё раз") },
		})
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil {
			return
		}
		h.workerPool.submit(&job{
			userID:    msg.From.ID,
			run:       func(ctx context.Context) { h.handleMessage(ctx, msg) },
			onLimited: func() { h.sendMessage(msg.Chat.ID, "⚠️ Слишком много запросов. Подождите немного.") },
			onBusy:    func() { h.sendMessage(msg.Chat.ID, "⚠️ Бот сейчас занят. Попробуйте через минуту.") },
		})
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	// Guruhlarda ishlamaymiz: reja shaxsiy
	if !message.Chat.IsPrivate() {
		return
	}
	if message.IsCommand() || strings.HasPrefix(strings.TrimSpace(message.Text), "/") {
		h.handleCommand(ctx, message)
		return
	}
	if strings.TrimSpace(message.Text) == "" {
		return
	}
	h.handleTextMessage(ctx, message.From.ID, message.Chat.ID, message.Text)
}

// handleTextMessage ism kutilayotgan bo'lsa ism, aks holda qidiruv
func (h *BotHandler) handleTextMessage(ctx context.Context, userID, chatID int64, text string) {
	s, ok, err := h.purchase.Session(ctx, userID)
	if err != nil {
		h.log.Error("session read failed", zap.Int64("user_id", userID), zap.Error(err))
		h.sendMessage(chatID, msgInternalError)
		return
	}
	if !ok || s.AwaitName || !s.HasUser() {
		h.applyUserName(ctx, userID, chatID, text)
		return
	}

	if err := h.purchase.SetQuery(ctx, userID, text); err != nil {
		h.reportError(chatID, err)
		return
	}
	h.showList(ctx, userID, chatID, true)
}

func (h *BotHandler) applyUserName(ctx context.Context, userID, chatID int64, name string) {
	if _, err := h.purchase.SetUserName(ctx, userID, name); err != nil {
		if errors.Is(err, entity.ErrNoUserName) {
			h.sendMessage(chatID, msgAskName)
			return
		}
		h.reportError(chatID, err)
		return
	}
	h.showList(ctx, userID, chatID, true)
}

package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// Callback data prefixes
const (
	cbPlus     = "p"
	cbSet      = "s"
	cbDetail   = "d"
	cbClose    = "x"
	cbPage     = "pg"
	cbCategory = "cat"
	cbFilter   = "f"
	cbOrder    = "order"
	cbRefresh  = "refresh"
	cbNoop     = "noop"

	filterMine   = "mine"
	filterAnchor = "anchor"
)

// callbackAction parsed inline button payload
type callbackAction struct {
	kind     string
	rowID    int
	qty      int
	page     int
	category entity.CategoryTag
	filter   string
}

// parseCallbackData decodes "kind|arg|arg"; unknown payloads are an error
func parseCallbackData(data string) (callbackAction, error) {
	parts := strings.Split(strings.TrimSpace(data), "|")
	a := callbackAction{kind: parts[0]}

	argInt := func(i int) (int, error) {
		if len(parts) <= i {
			return 0, fmt.Errorf("callback %q: missing argument %d", data, i)
		}
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, fmt.Errorf("callback %q: %w", data, err)
		}
		return v, nil
	}

	var err error
	switch a.kind {
	case cbPlus, cbDetail:
		a.rowID, err = argInt(1)
	case cbSet:
		if a.rowID, err = argInt(1); err == nil {
			a.qty, err = argInt(2)
		}
	case cbPage:
		a.page, err = argInt(1)
	case cbCategory:
		if len(parts) < 2 {
			return a, fmt.Errorf("callback %q: missing category", data)
		}
		a.category = entity.CategoryTag(parts[1])
	case cbFilter:
		if len(parts) < 2 || (parts[1] != filterMine && parts[1] != filterAnchor) {
			return a, fmt.Errorf("callback %q: unknown filter", data)
		}
		a.filter = parts[1]
	case cbClose, cbOrder, cbRefresh, cbNoop:
	default:
		return a, fmt.Errorf("unknown callback %q", data)
	}
	return a, err
}

// Callback query larini qayta ishlash
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID

	a, err := parseCallbackData(cq.Data)
	if err != nil {
		h.log.Debug("callback ignored", zap.Int64("user_id", userID), zap.Error(err))
		h.answerCallback(cq.ID, "")
		return
	}

	notice := ""
	switch a.kind {
	case cbNoop:
		h.answerCallback(cq.ID, "")
		return
	case cbPlus:
		planned, err := h.purchase.Increment(ctx, userID, a.rowID)
		if err != nil {
			h.answerCallback(cq.ID, "")
			h.reportError(chatID, err)
			return
		}
		notice = fmt.Sprintf("План: %s", formatML(float64(planned)))
	case cbSet:
		planned, err := h.purchase.SetPlanned(ctx, userID, a.rowID, a.qty)
		if err != nil {
			h.answerCallback(cq.ID, "")
			h.reportError(chatID, err)
			return
		}
		notice = fmt.Sprintf("План: %s", formatML(float64(planned)))
	case cbDetail:
		err = h.purchase.OpenRow(ctx, userID, a.rowID)
	case cbClose:
		err = h.purchase.CloseRow(ctx, userID)
	case cbPage:
		err = h.purchase.SetPage(ctx, userID, a.page)
	case cbCategory:
		err = h.purchase.ToggleCategory(ctx, userID, a.category)
	case cbFilter:
		if a.filter == filterMine {
			err = h.purchase.ToggleMine(ctx, userID)
		} else {
			err = h.purchase.ToggleAnchor(ctx, userID)
		}
	case cbOrder:
		h.answerCallback(cq.ID, "")
		h.sendOrder(ctx, userID, chatID)
		return
	case cbRefresh:
		notice = "Таблица перечитана"
	}
	h.answerCallback(cq.ID, notice)
	if err != nil {
		h.reportError(chatID, err)
		return
	}

	if err := h.purchase.RememberListMessage(ctx, userID, chatID, messageID); err != nil {
		h.log.Warn("remember list message failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	h.showList(ctx, userID, chatID, false)
}

// answerCallback stops the button spinner; text shows as a toast
func (h *BotHandler) answerCallback(id, text string) {
	if id == "" {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.log.Debug("callback answer failed", zap.Error(err))
	}
}

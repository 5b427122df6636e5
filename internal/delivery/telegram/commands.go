package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const historyLimit = 5

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	userID := message.From.ID
	chatID := message.Chat.ID
	cmd := extractCommand(message)
	args := commandArgs(message)
	if cmd == "" {
		h.sendMessage(chatID, "Неизвестная команда. /help – подсказка.")
		return
	}

	switch cmd {
	case "start":
		if _, err := h.purchase.Start(ctx, userID); err != nil {
			h.reportError(chatID, err)
			return
		}
		h.sendMessage(chatID, msgAskName)
	case "help":
		h.sendMessage(chatID, helpText)
	case "name":
		if args == "" {
			if _, err := h.purchase.Start(ctx, userID); err != nil {
				h.reportError(chatID, err)
				return
			}
			h.sendMessage(chatID, msgAskName)
			return
		}
		h.applyUserName(ctx, userID, chatID, args)
	case "search":
		if err := h.purchase.SetQuery(ctx, userID, args); err != nil {
			h.reportError(chatID, err)
			return
		}
		h.showList(ctx, userID, chatID, true)
	case "set":
		h.handleSetCommand(ctx, userID, chatID, args)
	case "mine":
		if err := h.purchase.ToggleMine(ctx, userID); err != nil {
			h.reportError(chatID, err)
			return
		}
		h.showList(ctx, userID, chatID, true)
	case "anchor":
		if err := h.purchase.ToggleAnchor(ctx, userID); err != nil {
			h.reportError(chatID, err)
			return
		}
		h.showList(ctx, userID, chatID, true)
	case "refresh":
		h.showList(ctx, userID, chatID, true)
	case "order":
		h.sendOrder(ctx, userID, chatID)
	case "export":
		h.sendExport(ctx, userID, chatID)
	case "history":
		entries, err := h.purchase.History(ctx, userID, historyLimit)
		if err != nil {
			h.reportError(chatID, err)
			return
		}
		h.sendMessage(chatID, renderHistory(entries))
	default:
		h.sendMessage(chatID, "Неизвестная команда. /help – подсказка.")
	}
}

// handleSetCommand "/set <row> <qty>"
func (h *BotHandler) handleSetCommand(ctx context.Context, userID, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		h.sendMessage(chatID, "Формат: /set <строка> <мл>, например /set 12 30")
		return
	}
	rowID, err1 := strconv.Atoi(fields[0])
	qty, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		h.sendMessage(chatID, "Строка и количество должны быть числами.")
		return
	}
	if _, err := h.purchase.SetPlanned(ctx, userID, rowID, qty); err != nil {
		h.reportError(chatID, err)
		return
	}
	h.showList(ctx, userID, chatID, true)
}

// sendOrder composes the shareable message and sends it as a separate message
func (h *BotHandler) sendOrder(ctx context.Context, userID, chatID int64) {
	msg, err := h.purchase.ComposeOrder(ctx, userID)
	if err != nil {
		h.reportError(chatID, err)
		return
	}
	h.sendMessage(chatID, renderOrder(msg))
	h.log.Info("order composed", zap.Int64("user_id", userID), zap.String("kind", string(msg.Kind)), zap.Int("items", len(msg.Items)))
}

func (h *BotHandler) sendExport(ctx context.Context, userID, chatID int64) {
	data, name, err := h.purchase.ExportPlan(ctx, userID)
	if err != nil {
		h.reportError(chatID, err)
		return
	}
	if err := h.sendDocument(chatID, name, data, "📊 Ваш план"); err != nil {
		h.log.Warn("export upload failed", zap.Int64("user_id", userID), zap.Error(err))
		h.sendMessage(chatID, "⚠️ Не удалось отправить файл.")
	}
}

// showList renders the current view. With fresh=false the remembered list
// message is edited in place; otherwise (or when editing fails) a new list
// is sent and the previous one loses its buttons.
func (h *BotHandler) showList(ctx context.Context, userID, chatID int64, fresh bool) {
	view, err := h.purchase.View(ctx, userID)
	if err != nil {
		h.reportError(chatID, err)
		return
	}
	text := renderList(view)
	markup := listKeyboard(view)

	s, ok, err := h.purchase.Session(ctx, userID)
	if err != nil {
		h.log.Warn("session read failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	if !fresh && ok && s.ListChatID == chatID && s.ListMsgID != 0 {
		if err := h.editText(chatID, s.ListMsgID, text, &markup); err == nil {
			return
		}
	}

	sent, err := h.sendText(chatID, text, markup)
	if err != nil {
		h.log.Warn("list send failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if ok && s.ListChatID != 0 && s.ListMsgID != 0 {
		h.clearInlineButtons(s.ListChatID, s.ListMsgID)
	}
	if err := h.purchase.RememberListMessage(ctx, userID, chatID, sent.MessageID); err != nil {
		h.log.Warn("remember list message failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

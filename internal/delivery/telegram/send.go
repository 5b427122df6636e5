package telegram

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

const telegramTextLimit = 4000

const (
	msgAskName       = "Как вас записать в таблице? Напишите имя так, как оно указано в заголовке колонки."
	msgInternalError = "⚠️ Внутренняя ошибка. Попробуйте ещё раз."
	msgFetchFailed   = "⚠️ Не удалось загрузить таблицу. Попробуйте /refresh чуть позже."
	msgEmptyPlan     = "План пуст: добавьте хотя бы один аромат кнопкой ➕."
	msgRowNotFound   = "Строка не найдена, список мог измениться. Нажмите 🔄."
)

// sendText plain text message with optional keyboard
func (h *BotHandler) sendText(chatID int64, text string, markup interface{}) (*tgbotapi.Message, error) {
	if h.bot == nil {
		return nil, fmt.Errorf("telegram bot is nil")
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := h.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// sendMessage long texts are split on line boundaries
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if strings.TrimSpace(text) == "" {
		h.log.Warn("empty message skipped", zap.Int64("chat_id", chatID))
		return
	}
	for _, chunk := range splitIntoChunks(text, telegramTextLimit) {
		if _, err := h.sendText(chatID, chunk, nil); err != nil {
			h.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

// sendDocument uploads an in-memory file
func (h *BotHandler) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := h.bot.Send(doc)
	return err
}

// editText replaces text and keyboard of an existing message
func (h *BotHandler) editText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup
	_, err := h.bot.Request(edit)
	if err != nil && isNotModified(err) {
		return nil
	}
	return err
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// reportError maps domain errors onto short hints; unknown errors are logged
func (h *BotHandler) reportError(chatID int64, err error) {
	h.sendMessage(chatID, h.errorText(err))
}

func (h *BotHandler) errorText(err error) string {
	if se, ok := entity.IsSchemaError(err); ok {
		return fmt.Sprintf("⚠️ В таблице не найдена колонка «%s». Проверьте заголовки.", se.Column)
	}
	if !usecase.IsUserError(err) {
		h.log.Error("request failed", zap.Error(err))
		return msgFetchFailed
	}
	switch {
	case errors.Is(err, entity.ErrNoUserName):
		return msgAskName
	case errors.Is(err, entity.ErrEmptyPlan):
		return msgEmptyPlan
	}
	return msgRowNotFound
}

// splitIntoChunks cuts s into pieces of at most limit runes, preferring newlines
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder
	size := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(s, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return chunks
}

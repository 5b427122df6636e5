package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

const buttonNameRunes = 24

// listKeyboard inline keyboard under the list message
func listKeyboard(v *usecase.CatalogView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, r := range v.PageRows {
		id := strconv.Itoa(r.RowID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+shortName(r.AromaName, buttonNameRunes), cbPlus+"|"+id),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️", cbDetail+"|"+id),
		))
	}

	if v.OpenRow != nil {
		rows = append(rows, detailRow(*v.OpenRow))
	}

	if v.PageCount > 1 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("%s|%d", cbPage, v.Page-1)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", v.Page+1, v.PageCount), cbNoop),
			tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("%s|%d", cbPage, v.Page+1)),
		))
	}

	cats := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(checked(len(v.Filter.Categories) == 0, entity.CategoryAll.Label()), cbCategory+"|"+string(entity.CategoryAll)),
	}
	for _, tag := range entity.KnownCategories {
		selected := len(v.Filter.Categories) > 0 && v.Filter.HasCategory(tag)
		cats = append(cats, tgbotapi.NewInlineKeyboardButtonData(checked(selected, tag.Label()), cbCategory+"|"+string(tag)))
	}
	rows = append(rows, cats)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(checked(v.Filter.AnchorOnly, "🆕 Новинки"), cbFilter+"|"+filterAnchor),
		tgbotapi.NewInlineKeyboardButtonData(checked(v.Filter.MineOnly, "⭐ Мой план"), cbFilter+"|"+filterMine),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📨 Собрать заказ", cbOrder),
		tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", cbRefresh),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func detailRow(r entity.CanonicalRow) []tgbotapi.InlineKeyboardButton {
	id := strconv.Itoa(r.RowID)
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("0", cbSet+"|"+id+"|0"),
		tgbotapi.NewInlineKeyboardButtonData("50 мл", cbSet+"|"+id+"|50"),
		tgbotapi.NewInlineKeyboardButtonData("100 мл", cbSet+"|"+id+"|100"),
		tgbotapi.NewInlineKeyboardButtonData("✖️", cbClose),
	)
}

func checked(on bool, label string) string {
	if on {
		return "✓ " + label
	}
	return label
}

func (h *BotHandler) clearInlineButtons(chatID int64, messageID int) bool {
	if chatID == 0 || messageID == 0 {
		return false
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil && !isNotModified(err) {
		return false
	}
	return true
}

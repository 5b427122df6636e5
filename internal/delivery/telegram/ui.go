package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

const helpText = `🧴 Совместная закупка ароматов

Напишите своё имя, как в заголовке колонки таблицы, и выбирайте ароматы кнопкой ➕ (+10 мл).
Любой текст после этого работает как поиск.

/name <имя> – сменить имя (план сохраняется)
/search <текст> – поиск, без текста сбрасывает
/set <строка> <мл> – задать план напрямую
/mine – только мой план
/anchor – показывать с раздела новинок
/order – собрать сообщение для чата закупки
/export – план в Excel
/history – последние собранные сообщения
/refresh – перечитать таблицу`

// renderList list screen text: header, filters, one line per row, footer
func renderList(v *usecase.CatalogView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 %s · 💰 %s · ➕ %s\n", strings.TrimSpace(v.UserName), formatRub(v.Totals.Ordered), formatRub(v.Totals.Planned))
	if !v.UserColumn {
		fmt.Fprintf(&b, "⚠️ Колонка «%s» не найдена, заказанное считается нулём.\n", strings.TrimSpace(v.UserName))
	}
	if line := filterLine(v.Filter); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.PageRows) == 0 {
		if v.CatalogSize == 0 {
			b.WriteString("Таблица пуста.")
		} else {
			b.WriteString("Ничего не найдено.")
		}
		return b.String()
	}

	tail := fmt.Sprintf("\nСтр. %d/%d · позиций: %d", v.Page+1, v.PageCount, len(v.Rows))
	if v.OpenRow != nil {
		tail += "\n\n" + renderDetail(*v.OpenRow, v.Ledger.Get(v.OpenRow.RowID))
	}

	// the whole screen must fit one Telegram message
	budget := telegramTextLimit - utf8.RuneCountInString(b.String()) - utf8.RuneCountInString(tail)
	for _, r := range v.PageRows {
		line := renderRowLine(r, v.Ledger.Get(r.RowID)) + "\n"
		n := utf8.RuneCountInString(line)
		if n > budget-utf8.RuneCountInString(listCutMark) {
			b.WriteString(listCutMark)
			break
		}
		b.WriteString(line)
		budget -= n
	}
	b.WriteString(tail)
	return b.String()
}

// listCutMark replaces rows that did not fit
const listCutMark = "…\n"

func renderRowLine(r entity.CanonicalRow, planned int) string {
	var b strings.Builder
	b.WriteString(collectedMarker(r.TotalCollected))
	b.WriteString(" ")
	b.WriteString(r.AromaName)
	b.WriteString(" — ")
	b.WriteString(formatPrice(r.UnitPrice))
	if r.OrderedQuantity > 0 {
		b.WriteString(" · заказано ")
		b.WriteString(formatML(r.OrderedQuantity))
	}
	if planned > 0 {
		b.WriteString(" · план ")
		b.WriteString(formatML(float64(planned)))
	}
	return b.String()
}

// renderDetail expanded panel of one row
func renderDetail(r entity.CanonicalRow, planned int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ℹ️ %s\n", r.AromaName)
	if r.Category != "" {
		fmt.Fprintf(&b, "Пол: %s\n", r.Category)
	}
	fmt.Fprintf(&b, "10 мл: %s", priceOrDash(r.UnitPrice))
	if r.Price50 > 0 {
		fmt.Fprintf(&b, " · 50 мл: %s", formatRub(r.Price50))
	}
	if r.Price100 > 0 {
		fmt.Fprintf(&b, " · 100 мл: %s", formatRub(r.Price100))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Заказано: %s · План: %s\n", formatML(r.OrderedQuantity), formatML(float64(planned)))
	fmt.Fprintf(&b, "Набрано в группе: %s %s", formatML(r.TotalCollected), collectedMarker(r.TotalCollected))
	return b.String()
}

func priceOrDash(v float64) string {
	if v <= 0 {
		return "—"
	}
	return formatRub(v)
}

// filterLine empty when nothing narrows the list
func filterLine(f entity.ViewFilter) string {
	var parts []string
	if f.Query != "" {
		parts = append(parts, "🔎 «"+f.Query+"»")
	}
	for _, tag := range entity.KnownCategories {
		if len(f.Categories) > 0 && f.HasCategory(tag) {
			parts = append(parts, tag.Label())
		}
	}
	if f.AnchorOnly {
		parts = append(parts, "🆕 с новинок")
	}
	if f.MineOnly {
		parts = append(parts, "⭐ мой план")
	}
	return strings.Join(parts, " · ")
}

// renderOrder text to be forwarded to the purchase chat
func renderOrder(msg entity.OrderMessage) string {
	return msg.Text()
}

func renderHistory(entries []entity.JournalEntry) string {
	if len(entries) == 0 {
		return "История пуста: сообщений ещё не собирали."
	}
	var b strings.Builder
	b.WriteString("🗂 Последние сообщения:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s · %s\n%s\n", e.CreatedAt.Format("02.01 15:04"), formatRub(e.Planned), e.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

package telegram

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
)

var (
	rubPrinter = message.NewPrinter(language.Russian)
	nbspFixer  = strings.NewReplacer("\u00a0", " ", "\u202f", " ")
)

// formatRub ruble amount with russian digit grouping; kopecks only when present
func formatRub(v float64) string {
	var s string
	if v == math.Trunc(v) {
		s = rubPrinter.Sprintf("%d", int64(v))
	} else {
		s = rubPrinter.Sprintf("%.2f", v)
	}
	return nbspFixer.Replace(s) + " ₽"
}

// formatPrice "<price> ₽ / 10 мл" or a dash when the sheet has no price
func formatPrice(v float64) string {
	if v <= 0 {
		return "—"
	}
	return formatRub(v) + " / 10 мл"
}

func formatML(v float64) string {
	if v == math.Trunc(v) {
		return nbspFixer.Replace(rubPrinter.Sprintf("%d мл", int64(v)))
	}
	return nbspFixer.Replace(rubPrinter.Sprintf("%.1f мл", v))
}

// collectedMarker group progress badge
func collectedMarker(collected float64) string {
	switch {
	case collected >= constants.CollectedFullThreshold:
		return "✅"
	case collected >= constants.CollectedHalfThreshold:
		return "🟡"
	default:
		return "⚪"
	}
}

// shortName button caption cut to max runes
func shortName(name string, max int) string {
	name = strings.TrimSpace(name)
	r := []rune(name)
	if max <= 0 || len(r) <= max {
		return name
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

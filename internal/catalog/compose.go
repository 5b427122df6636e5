package catalog

import (
	"fmt"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// DetectOrderKind reorder when anything in rows is already ordered.
func DetectOrderKind(rows []entity.CanonicalRow) entity.OrderKind {
	for _, r := range rows {
		if r.OrderedQuantity > 0 {
			return entity.OrderKindReorder
		}
	}
	return entity.OrderKindOrder
}

// FormatOrderLine "• <name> — <planned> мл"
func FormatOrderLine(name string, planned int) string {
	return fmt.Sprintf("• %s — %d мл", name, planned)
}

// Compose renders the planned ledger over rows into a shareable message.
// Returns entity.ErrEmptyPlan when no row has a positive plan.
func Compose(rows []entity.CanonicalRow, ledger entity.PlannedReader, displayName, orderTag, reorderTag string) (entity.OrderMessage, error) {
	msg := entity.OrderMessage{
		Kind:        DetectOrderKind(rows),
		DisplayName: displayName,
	}
	msg.Tag = orderTag
	if msg.Kind == entity.OrderKindReorder {
		msg.Tag = reorderTag
	}

	if ledger == nil {
		return entity.OrderMessage{}, entity.ErrEmptyPlan
	}
	for _, r := range rows {
		planned := ledger.Get(r.RowID)
		if planned <= 0 {
			continue
		}
		cost := RowCost(r, float64(planned))
		msg.Lines = append(msg.Lines, FormatOrderLine(r.AromaName, planned))
		msg.Items = append(msg.Items, entity.OrderLine{
			RowID:     r.RowID,
			AromaName: r.AromaName,
			Planned:   planned,
			Cost:      cost,
		})
		msg.Total += cost
	}
	if len(msg.Lines) == 0 {
		return entity.OrderMessage{}, entity.ErrEmptyPlan
	}
	return msg, nil
}

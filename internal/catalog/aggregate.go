package catalog

import "github.com/yourusername/aroma-purchase-bot/internal/domain/entity"

// ComputeSums totals ordered and planned money over rows.
// Planned quantities are joined by row id, so any filtered subset works.
func ComputeSums(rows []entity.CanonicalRow, ledger entity.PlannedReader) entity.Totals {
	var t entity.Totals
	for _, r := range rows {
		t.Ordered += r.OrderedQuantity / entity.PlannedStep * r.UnitPrice
		if ledger != nil {
			t.Planned += float64(ledger.Get(r.RowID)) / entity.PlannedStep * r.UnitPrice
		}
	}
	return t
}

// RowCost money for qty ml of a row.
func RowCost(r entity.CanonicalRow, qty float64) float64 {
	return qty / entity.PlannedStep * r.UnitPrice
}

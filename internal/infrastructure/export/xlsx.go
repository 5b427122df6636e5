// Package export renders a user's purchase plan as an XLSX workbook.
package export

import (
	"bytes"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/aroma-purchase-bot/internal/catalog"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

const (
	summarySheet = "Summary"
	planSheet    = "Plan"
)

var planHeaders = []string{
	"RowID",
	"Аромат",
	"Пол",
	"Цена за 10 мл",
	"План, мл",
	"Сумма плана",
	"Заказано, мл",
	"Набрано",
}

// PlanReport input for BuildPlanXLSX
type PlanReport struct {
	UserName    string
	Rows        []entity.CanonicalRow
	Ledger      entity.PlannedReader
	Totals      entity.Totals
	GeneratedAt time.Time
}

// BuildPlanXLSX two sheets: a summary and one line per row with a positive plan.
func BuildPlanXLSX(r PlanReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(planSheet); err != nil {
		return nil, err
	}

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	summary := [][]interface{}{
		{"Участник", r.UserName},
		{"Сформировано", generated.In(time.Local).Format("2006-01-02 15:04")},
		{"Уже заказано, ₽", r.Totals.Ordered},
		{"План, ₽", r.Totals.Planned},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	header := make([]interface{}, len(planHeaders))
	for i, h := range planHeaders {
		header[i] = h
	}
	if err := setRow(f, planSheet, 1, header); err != nil {
		return nil, err
	}

	rowIdx := 2
	for _, row := range r.Rows {
		qty := 0
		if r.Ledger != nil {
			qty = r.Ledger.Get(row.RowID)
		}
		if qty <= 0 {
			continue
		}
		values := []interface{}{
			row.RowID,
			row.AromaName,
			row.Category,
			row.UnitPrice,
			qty,
			catalog.RowCost(row, float64(qty)),
			row.OrderedQuantity,
			row.TotalCollected,
		}
		if err := setRow(f, planSheet, rowIdx, values); err != nil {
			return nil, err
		}
		rowIdx++
	}

	_ = f.SetColWidth(planSheet, "B", "B", 36)
	_ = f.SetColWidth(summarySheet, "A", "A", 20)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

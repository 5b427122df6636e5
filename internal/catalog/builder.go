package catalog

import (
	"strconv"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// Build projects a raw table onto canonical rows for userName.
// Row ids are the 0-based ordinal of each record; one row per record, in order.
func Build(table entity.RawTable, userName string) ([]entity.CanonicalRow, error) {
	rows, _, err := BuildBound(table, userName)
	return rows, err
}

// BuildBound is Build that also hands back the resolved binding.
func BuildBound(table entity.RawTable, userName string) ([]entity.CanonicalRow, ColumnBinding, error) {
	binding, err := ResolveColumns(table.Headers, userName)
	if err != nil {
		return nil, ColumnBinding{}, err
	}
	rows := make([]entity.CanonicalRow, table.Len())
	for i := range rows {
		rows[i] = binding.Project(i, table.Record(i))
	}
	return rows, binding, nil
}

// FindRow looks a row up by id.
func FindRow(rows []entity.CanonicalRow, rowID int) (entity.CanonicalRow, bool) {
	// ids are positional on a freshly built table
	if rowID >= 0 && rowID < len(rows) && rows[rowID].RowID == rowID {
		return rows[rowID], true
	}
	for _, r := range rows {
		if r.RowID == rowID {
			return r, true
		}
	}
	return entity.CanonicalRow{}, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package sheets fetches the shared purchase spreadsheet from the supported
// transports and hands it to the catalog as an entity.RawTable.
package sheets

import (
	"strings"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// tableFromGrid uses the first non-blank row as the header row.
// Data rows are padded or truncated to the header width.
func tableFromGrid(grid [][]string) entity.RawTable {
	start := -1
	for i, row := range grid {
		if !isBlankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return entity.RawTable{}
	}

	headers := make([]string, len(grid[start]))
	copy(headers, grid[start])
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	rows := make([][]string, 0, len(grid)-start-1)
	for _, raw := range grid[start+1:] {
		row := make([]string, len(headers))
		copy(row, raw)
		rows = append(rows, row)
	}
	return entity.RawTable{Headers: headers, Rows: rows}
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

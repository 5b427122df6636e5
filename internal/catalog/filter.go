package catalog

import (
	"strings"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// FilterSearch keeps rows whose lowercased name contains query.
func FilterSearch(rows []entity.CanonicalRow, query string) []entity.CanonicalRow {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]entity.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.AromaName), q) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCategory keeps rows whose tag is selected. An empty selection or one
// holding CategoryAll keeps everything; unknown tags never match a bucket.
func FilterCategory(rows []entity.CanonicalRow, selected map[entity.CategoryTag]struct{}) []entity.CanonicalRow {
	if len(selected) == 0 {
		return rows
	}
	if _, all := selected[entity.CategoryAll]; all {
		return rows
	}
	out := make([]entity.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if r.CategoryTag == entity.CategoryUnknown {
			continue
		}
		if _, ok := selected[r.CategoryTag]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterFromAnchor drops every row before the first one whose name contains
// keyword (case-insensitive). No match, or an empty keyword, keeps all rows.
func FilterFromAnchor(rows []entity.CanonicalRow, keyword string) []entity.CanonicalRow {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return rows
	}
	for i, r := range rows {
		if strings.Contains(strings.ToLower(r.AromaName), kw) {
			return rows[i:]
		}
	}
	return rows
}

// FilterMine keeps rows already ordered or planned by the user.
func FilterMine(rows []entity.CanonicalRow, ledger entity.PlannedReader) []entity.CanonicalRow {
	out := make([]entity.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		planned := 0
		if ledger != nil {
			planned = ledger.Get(r.RowID)
		}
		if r.OrderedQuantity > 0 || planned > 0 {
			out = append(out, r)
		}
	}
	return out
}

// ApplyView runs the filters in order: anchor, search, category, mine.
// The anchor goes first because it marks a section of the full table.
func ApplyView(rows []entity.CanonicalRow, f entity.ViewFilter, anchorKeyword string, ledger entity.PlannedReader) []entity.CanonicalRow {
	out := rows
	if f.AnchorOnly {
		out = FilterFromAnchor(out, anchorKeyword)
	}
	out = FilterSearch(out, f.Query)
	out = FilterCategory(out, f.Categories)
	if f.MineOnly {
		out = FilterMine(out, ledger)
	}
	return out
}

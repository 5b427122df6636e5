package entity

import "strings"

// RawTable spreadsheet export as received from a sheet source.
// Rows are aligned with Headers; missing trailing cells read as "".
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Len number of data rows
func (t RawTable) Len() int {
	return len(t.Rows)
}

// Record returns the i-th row as a header-aware record.
func (t RawTable) Record(i int) RawRecord {
	cells := make([]string, len(t.Headers))
	if i >= 0 && i < len(t.Rows) {
		copy(cells, t.Rows[i])
	}
	return RawRecord{Headers: t.Headers, Cells: cells}
}

// RawRecord one spreadsheet row: header -> cell text, column order preserved.
type RawRecord struct {
	Headers []string
	Cells   []string
}

// Cell returns the cell at column index col, or "" when out of range.
func (r RawRecord) Cell(col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return r.Cells[col]
}

// CategoryTag recognised gender/type bucket of an aroma.
type CategoryTag string

const (
	CategoryAll     CategoryTag = "all"
	CategoryFemale  CategoryTag = "female"
	CategoryMale    CategoryTag = "male"
	CategoryUnisex  CategoryTag = "unisex"
	CategoryUnknown CategoryTag = ""
)

// KnownCategories filterable buckets in display order.
var KnownCategories = []CategoryTag{CategoryFemale, CategoryMale, CategoryUnisex}

// ParseCategoryTag maps a raw category cell onto a known bucket.
func ParseCategoryTag(raw string) CategoryTag {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return CategoryUnknown
	case strings.HasPrefix(v, "уни") || strings.HasPrefix(v, "uni"):
		return CategoryUnisex
	case strings.HasPrefix(v, "жен") || v == "ж" || strings.HasPrefix(v, "fem") || v == "w":
		return CategoryFemale
	case strings.HasPrefix(v, "муж") || v == "м" || strings.HasPrefix(v, "male") || v == "m":
		return CategoryMale
	default:
		return CategoryUnknown
	}
}

// Label russian label used by the UI
func (c CategoryTag) Label() string {
	switch c {
	case CategoryAll:
		return "Все"
	case CategoryFemale:
		return "Женские"
	case CategoryMale:
		return "Мужские"
	case CategoryUnisex:
		return "Унисекс"
	default:
		return "—"
	}
}

// CanonicalRow normalized catalog item
type CanonicalRow struct {
	RowID           int         `json:"row_id"`
	AromaName       string      `json:"aroma_name"`
	Category        string      `json:"category,omitempty"`
	CategoryTag     CategoryTag `json:"category_tag,omitempty"`
	UnitPrice       float64     `json:"unit_price"` // per 10 ml
	Price50         float64     `json:"price_50,omitempty"`
	Price100        float64     `json:"price_100,omitempty"`
	OrderedQuantity float64     `json:"ordered_quantity"`
	TotalCollected  float64     `json:"total_collected"`
}

// Totals ordered vs planned money over a row set
type Totals struct {
	Ordered float64 `json:"ordered_total"`
	Planned float64 `json:"planned_total"`
}

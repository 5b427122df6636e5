package catalog

import (
	"strings"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// PriceMode how the unit price of a row is located
type PriceMode int

const (
	// PriceFixed the sheet has an explicit "10 гр" column
	PriceFixed PriceMode = iota
	// PriceScan first positive numeric cell of the row is the price
	PriceScan
)

const noColumn = -1

// ColumnBinding resolved column positions for one sheet load.
// Optional columns are -1 when absent.
type ColumnBinding struct {
	Name      int
	Category  int
	Price10   int
	Price50   int
	Price100  int
	Ordered   int
	Collected int
	PriceMode PriceMode

	// OrderedSynthesized user has no column; every ordered quantity is 0.
	OrderedSynthesized bool

	width int
}

// ResolveColumns matches sheet headers against the known schema and the
// requested user name. The only failure is a missing name column.
func ResolveColumns(headers []string, userName string) (ColumnBinding, error) {
	b := ColumnBinding{
		Name:      noColumn,
		Category:  noColumn,
		Price10:   noColumn,
		Price50:   noColumn,
		Price100:  noColumn,
		Ordered:   noColumn,
		Collected: noColumn,
		width:     len(headers),
	}

	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeName(h)
	}

	for i, h := range norm {
		switch {
		case b.Name == noColumn && strings.Contains(h, constants.NameHeaderKeyword):
			b.Name = i
		case b.Category == noColumn && h == constants.CategoryHeader:
			b.Category = i
		case b.Price10 == noColumn && sameTier(h, constants.Price10Header):
			b.Price10 = i
		case b.Price50 == noColumn && sameTier(h, constants.Price50Header):
			b.Price50 = i
		case b.Price100 == noColumn && sameTier(h, constants.Price100Header):
			b.Price100 = i
		case b.Collected == noColumn && strings.Contains(h, constants.CollectedHeaderKeyword):
			b.Collected = i
		}
	}
	if b.Name == noColumn {
		return ColumnBinding{}, &entity.SchemaError{Column: constants.NameHeaderKeyword, Headers: headers}
	}

	if user := NormalizeName(userName); user != "" {
		for i, h := range norm {
			if i != b.Name && h == user {
				b.Ordered = i
				break
			}
		}
	}
	b.OrderedSynthesized = b.Ordered == noColumn

	b.PriceMode = PriceScan
	if b.Price10 != noColumn {
		b.PriceMode = PriceFixed
	}
	return b, nil
}

func sameTier(header, tier string) bool {
	return strings.ReplaceAll(header, " ", "") == strings.ReplaceAll(tier, " ", "")
}

// scanCells cells eligible for position-independent price scanning:
// everything except the columns already bound to a non-price meaning.
func (b ColumnBinding) scanCells(rec entity.RawRecord) []string {
	cells := make([]string, 0, len(rec.Cells))
	for i, c := range rec.Cells {
		if i == b.Name || i == b.Category || i == b.Ordered || i == b.Collected {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}

// Project maps one raw record onto a canonical row. It never fails.
func (b ColumnBinding) Project(rowID int, rec entity.RawRecord) entity.CanonicalRow {
	row := entity.CanonicalRow{
		RowID:     rowID,
		AromaName: strings.TrimSpace(rec.Cell(b.Name)),
	}
	if b.Category != noColumn {
		row.Category = strings.TrimSpace(rec.Cell(b.Category))
		row.CategoryTag = entity.ParseCategoryTag(row.Category)
	}

	switch b.PriceMode {
	case PriceFixed:
		row.UnitPrice = ParseNonNegative(rec.Cell(b.Price10))
	case PriceScan:
		if v, ok := ExtractFirstNumber(b.scanCells(rec)); ok {
			row.UnitPrice = ParseNonNegative(formatNumber(v))
		}
	}
	if b.Price50 != noColumn {
		row.Price50 = ParseNonNegative(rec.Cell(b.Price50))
	}
	if b.Price100 != noColumn {
		row.Price100 = ParseNonNegative(rec.Cell(b.Price100))
	}
	if !b.OrderedSynthesized {
		row.OrderedQuantity = ParseNonNegative(rec.Cell(b.Ordered))
	}
	if b.Collected != noColumn {
		row.TotalCollected = ParseNonNegative(rec.Cell(b.Collected))
	}
	return row
}

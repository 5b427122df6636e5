package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

func fixedTable() entity.RawTable {
	return entity.RawTable{
		Headers: []string{"Название аромата", "пол", "10 гр", "50 гр", "100 гр", "Набрано", "Anna Petrova", "Oleg"},
		Rows: [][]string{
			{"Baccarat Rouge", "унисекс", "450 ₽", "2000", "3800", "120", "20", ""},
			{"Lost Cherry", "женский", "—", "", "", "40", "", "10"},
			{"Aventus", "мужской", "380,5", "", "", "", "abc", ""},
			{"Mystery", "другое", "100", "", "", "", "", ""},
		},
	}
}

func TestBuild_FixedColumns(t *testing.T) {
	rows, err := Build(fixedTable(), "  anna  petrova ")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for i, r := range rows {
		assert.Equal(t, i, r.RowID)
	}
	assert.Equal(t, "Baccarat Rouge", rows[0].AromaName)
	assert.Equal(t, entity.CategoryUnisex, rows[0].CategoryTag)
	assert.Equal(t, 450.0, rows[0].UnitPrice)
	assert.Equal(t, 2000.0, rows[0].Price50)
	assert.Equal(t, 3800.0, rows[0].Price100)
	assert.Equal(t, 120.0, rows[0].TotalCollected)
	assert.Equal(t, 20.0, rows[0].OrderedQuantity)

	assert.Equal(t, 0.0, rows[1].UnitPrice, "dash price coerces to 0")
	assert.Equal(t, 0.0, rows[1].OrderedQuantity)
	assert.Equal(t, 380.5, rows[2].UnitPrice)
	assert.Equal(t, 0.0, rows[2].OrderedQuantity, "unparseable quantity coerces to 0")
	assert.Equal(t, entity.CategoryUnknown, rows[3].CategoryTag)
	assert.Equal(t, "другое", rows[3].Category)
}

func TestBuild_UnknownUserSynthesizesZeroColumn(t *testing.T) {
	rows, err := Build(fixedTable(), "Anna")
	require.NoError(t, err)
	for _, r := range rows {
		assert.Zero(t, r.OrderedQuantity)
	}

	b, err := ResolveColumns(fixedTable().Headers, "Anna")
	require.NoError(t, err)
	assert.True(t, b.OrderedSynthesized)
}

func TestBuild_MissingNameColumnIsSchemaError(t *testing.T) {
	table := entity.RawTable{
		Headers: []string{"Аромат", "пол", "10 гр"},
		Rows:    [][]string{{"X", "жен", "10"}},
	}
	rows, err := Build(table, "Anna")
	require.Error(t, err)
	assert.Nil(t, rows)

	se, ok := entity.IsSchemaError(err)
	require.True(t, ok)
	assert.Equal(t, "название", se.Column)
}

func TestBuild_ExactLegacyHeader(t *testing.T) {
	table := entity.RawTable{
		Headers: []string{"Название", "пол", "10 гр", "50 гр", "100 гр"},
		Rows:    [][]string{{"X", "ж", "10", "40", "70"}},
	}
	rows, err := Build(table, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.CategoryFemale, rows[0].CategoryTag)
}

func TestBuild_ScanModeTakesFirstPositiveNumber(t *testing.T) {
	table := entity.RawTable{
		Headers: []string{"№", "Название", "Oleg", "Комментарий", "Цена"},
		Rows: [][]string{
			{"0", "Santal 33", "30", "хит", "250,5"},
			{"", "Oud Wood", "", "", ""},
			{"-1", "Tobacco", "", "x", "1 200"},
		},
	}
	b, err := ResolveColumns(table.Headers, "oleg")
	require.NoError(t, err)
	assert.Equal(t, PriceScan, b.PriceMode)

	rows, err := Build(table, "oleg")
	require.NoError(t, err)
	assert.Equal(t, 250.5, rows[0].UnitPrice, "ordered column is not scanned")
	assert.Equal(t, 30.0, rows[0].OrderedQuantity)
	assert.Equal(t, 0.0, rows[1].UnitPrice)
	assert.Equal(t, 0.0, rows[2].UnitPrice, "grouped digits are not a strict number")
}

func TestBuild_ShortRowsArePadded(t *testing.T) {
	table := entity.RawTable{
		Headers: []string{"Название", "10 гр", "Anna"},
		Rows:    [][]string{{"Only name"}},
	}
	rows, err := Build(table, "anna")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Only name", rows[0].AromaName)
	assert.Zero(t, rows[0].UnitPrice)
}

func TestFindRow(t *testing.T) {
	rows, err := Build(fixedTable(), "")
	require.NoError(t, err)

	r, ok := FindRow(rows, 2)
	require.True(t, ok)
	assert.Equal(t, "Aventus", r.AromaName)

	r, ok = FindRow(rows[2:], 3)
	require.True(t, ok)
	assert.Equal(t, "Mystery", r.AromaName)

	_, ok = FindRow(rows, 42)
	assert.False(t, ok)
}

package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

func TestCompose_SingleLine(t *testing.T) {
	rows := []entity.CanonicalRow{
		{RowID: 1, AromaName: "X", UnitPrice: 50},
		{RowID: 2, AromaName: "Y", UnitPrice: 70},
	}
	ledger := entity.NewPlannedLedger()
	ledger.Set(1, 20)

	msg, err := Compose(rows, ledger, "Anna", "#заказ", "#дозаказ")
	require.NoError(t, err)
	assert.Equal(t, []string{"• X — 20 мл"}, msg.Lines)
	assert.Equal(t, entity.OrderKindOrder, msg.Kind)
	assert.Equal(t, "#заказ", msg.Tag)
	assert.Equal(t, 100.0, msg.Total)
	assert.Equal(t, "#заказ Anna\n• X — 20 мл", msg.Text())
}

func TestCompose_EmptyPlan(t *testing.T) {
	rows := []entity.CanonicalRow{{RowID: 1, AromaName: "X"}, {RowID: 2, AromaName: "Y"}}
	ledger := entity.NewPlannedLedger()
	ledger.Set(1, 0)

	_, err := Compose(rows, ledger, "Anna", "#заказ", "#дозаказ")
	assert.True(t, errors.Is(err, entity.ErrEmptyPlan))

	_, err = Compose(rows, nil, "Anna", "#заказ", "#дозаказ")
	assert.True(t, errors.Is(err, entity.ErrEmptyPlan))
}

func TestCompose_ReorderKeepsRowOrder(t *testing.T) {
	rows := []entity.CanonicalRow{
		{RowID: 0, AromaName: "A", OrderedQuantity: 10},
		{RowID: 1, AromaName: "B"},
		{RowID: 2, AromaName: "C"},
	}
	ledger := entity.NewPlannedLedger()
	ledger.Increment(2)
	ledger.Increment(1)
	ledger.Increment(1)

	msg, err := Compose(rows, ledger, "Oleg", "#заказ", "#дозаказ")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderKindReorder, msg.Kind)
	assert.Equal(t, "#дозаказ", msg.Tag)
	assert.Equal(t, []string{"• B — 20 мл", "• C — 10 мл"}, msg.Lines)
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/metrics"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/storage"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

type stubSource struct {
	table entity.RawTable
	err   error
}

func (s *stubSource) Fetch(context.Context) (entity.RawTable, error) {
	return s.table, s.err
}

func (s *stubSource) Name() string { return "stub" }

func sheet() entity.RawTable {
	return entity.RawTable{
		Headers: []string{"Название аромата", "пол", "10 гр", "Oleg"},
		Rows: [][]string{
			{"Amber", "жен", "70", "10"},
			{"Birch", "муж", "50", ""},
			{"НОВИНКИ: Dune", "жен", "120", "20"},
		},
	}
}

// newTestRouter with seed=true composes one reorder for Oleg through the usecase
func newTestRouter(t *testing.T, src *stubSource, seed bool) http.Handler {
	t.Helper()
	m := metrics.New()
	journal := storage.NewMemoryOrderJournal()
	uc := usecase.NewPurchaseUseCase(src, storage.NewMemorySessionRepository(), journal, m, nil, usecase.Options{})

	if seed {
		ctx := context.Background()
		_, err := uc.SetUserName(ctx, 1, "Oleg")
		require.NoError(t, err)
		_, err = uc.Increment(ctx, 1, 1)
		require.NoError(t, err)
		_, err = uc.ComposeOrder(ctx, 1)
		require.NoError(t, err)
	}

	return NewRouter(Config{
		Purchase: uc,
		Journal:  journal,
		Metrics:  m.Handler(),
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, &stubSource{table: sheet()}, true)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCatalogForUser(t *testing.T) {
	h := newTestRouter(t, &stubSource{table: sheet()}, true)

	rec := get(t, h, "/api/v1/catalog?user=oleg")
	require.Equal(t, http.StatusOK, rec.Code)

	var body catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.UserColumn)
	assert.True(t, body.FixedPrice)
	assert.Equal(t, "stub", body.Source)
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Rows, 3)
	assert.Equal(t, 10.0, body.Rows[0].OrderedQuantity)
	assert.Equal(t, 70.0+240.0, body.Totals.Ordered)
	assert.Zero(t, body.Totals.Planned)
}

func TestCatalogFilters(t *testing.T) {
	h := newTestRouter(t, &stubSource{table: sheet()}, true)

	var body catalogResponse
	rec := get(t, h, "/api/v1/catalog?category=female&q=amb")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "Amber", body.Rows[0].AromaName)
	assert.False(t, body.UserColumn)

	body = catalogResponse{}
	rec = get(t, h, "/api/v1/catalog?anchor=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "НОВИНКИ: Dune", body.Rows[0].AromaName)
}

func TestCatalogErrors(t *testing.T) {
	broken := sheet()
	broken.Headers[0] = "Аромат"
	h := newTestRouter(t, &stubSource{table: broken}, false)
	rec := get(t, h, "/api/v1/catalog")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"schema","column":"название"}`, rec.Body.String())

	h = newTestRouter(t, &stubSource{err: errors.New("timeout")}, false)
	rec = get(t, h, "/api/v1/catalog")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRecentOrders(t *testing.T) {
	h := newTestRouter(t, &stubSource{table: sheet()}, true)

	rec := get(t, h, "/api/v1/orders/recent?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []journalItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, entity.OrderKindReorder, items[0].Kind)
	assert.Equal(t, "#дозаказ Oleg\n• Birch — 10 мл", items[0].Text)
	assert.WithinDuration(t, time.Now(), items[0].CreatedAt, time.Minute)

	rec = get(t, h, "/api/v1/orders/recent?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, &stubSource{table: sheet()}, true)
	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `aroma_orders_composed_total{kind="reorder"} 1`))
}

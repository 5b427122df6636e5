package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

func sampleRows() []entity.CanonicalRow {
	return []entity.CanonicalRow{
		{RowID: 0, AromaName: "Amber Oud", CategoryTag: entity.CategoryUnisex},
		{RowID: 1, AromaName: "Black Orchid", CategoryTag: entity.CategoryFemale, OrderedQuantity: 10},
		{RowID: 2, AromaName: "НОВИНКИ: Cedar", CategoryTag: entity.CategoryMale},
		{RowID: 3, AromaName: "Dune", CategoryTag: entity.CategoryUnknown, Category: "???"},
	}
}

func ids(rows []entity.CanonicalRow) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RowID)
	}
	return out
}

func TestFilterFromAnchor(t *testing.T) {
	rows := sampleRows()
	if diff := cmp.Diff([]int{2, 3}, ids(FilterFromAnchor(rows, "новинки"))); diff != "" {
		t.Fatalf("anchored subset mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, ids(FilterFromAnchor(rows, "missing"))); diff != "" {
		t.Fatalf("no-match must keep input (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, ids(FilterFromAnchor(rows, "  "))); diff != "" {
		t.Fatalf("empty keyword must keep input (-want +got):\n%s", diff)
	}
}

func TestFilterSearch(t *testing.T) {
	rows := sampleRows()
	if diff := cmp.Diff([]int{1}, ids(FilterSearch(rows, "  ORCH "))); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	if got := FilterSearch(rows, ""); len(got) != len(rows) {
		t.Fatalf("empty query should keep all rows, got %d", len(got))
	}
}

func TestFilterCategory(t *testing.T) {
	rows := sampleRows()
	sel := map[entity.CategoryTag]struct{}{entity.CategoryFemale: {}, entity.CategoryMale: {}}
	if diff := cmp.Diff([]int{1, 2}, ids(FilterCategory(rows, sel))); diff != "" {
		t.Fatalf("category mismatch (-want +got):\n%s", diff)
	}
	all := map[entity.CategoryTag]struct{}{entity.CategoryAll: {}}
	if got := FilterCategory(rows, all); len(got) != 4 {
		t.Fatalf("all sentinel should keep every row, got %d", len(got))
	}
	if got := FilterCategory(rows, nil); len(got) != 4 {
		t.Fatalf("empty selection should keep every row, got %d", len(got))
	}
}

func TestFilterMine(t *testing.T) {
	rows := sampleRows()
	ledger := entity.NewPlannedLedger()
	ledger.Increment(3)
	ledger.Set(0, 0)
	if diff := cmp.Diff([]int{1, 3}, ids(FilterMine(rows, ledger))); diff != "" {
		t.Fatalf("mine mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyView_AnchorThenSearch(t *testing.T) {
	rows := sampleRows()
	f := entity.ViewFilter{Query: "d", AnchorOnly: true}
	// "Amber Oud" matches "d" but sits before the anchor row
	if diff := cmp.Diff([]int{2, 3}, ids(ApplyView(rows, f, "новинки", nil))); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}

	f = entity.ViewFilter{MineOnly: true}
	if diff := cmp.Diff([]int{1}, ids(ApplyView(rows, f, "новинки", entity.NewPlannedLedger()))); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

package engine

import (
	"testing"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// FILTER EVALUATOR TESTS
// ============================================================================

func salesTable() *dataset.Table {
	return &dataset.Table{
		ID:   "t-sales",
		Name: "sales",
		Columns: []dataset.Column{
			{Name: "region", Type: dataset.TypeString},
			{Name: "order_date", Type: dataset.TypeDate},
			{Name: "amount", Type: dataset.TypeNumber},
		},
		Rows: []dataset.Row{
			{"region": "North", "order_date": "2026-01-05", "amount": 100.0},
			{"region": "South", "order_date": "2026-01-20", "amount": 200.0},
			{"region": "North", "order_date": "2026-02-10", "amount": 300.0},
			{"region": "East", "order_date": "2026-03-01", "amount": 400.0},
		},
	}
}

func regionSlicer(selected ...string) *Slicer {
	return &Slicer{
		ID:              "s-region",
		Name:            "Region",
		ColumnName:      "region",
		TableID:         "t-sales",
		Kind:            KindTableSpecific,
		FilterMode:      dataset.FilterMultiSelect,
		SelectedValues:  selected,
		AvailableValues: []string{"North", "South", "East"},
	}
}

func TestApplySlicersMembership(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	out := ApplySlicers(view, []string{"s-region"}, []*Slicer{regionSlicer("North")}, table)
	if out.Len() != 2 {
		t.Fatalf("expected 2 North rows, got %d", out.Len())
	}
	for i := 0; i < out.Len(); i++ {
		if out.Row(i)["region"] != "North" {
			t.Errorf("row %d: region = %v, want North", i, out.Row(i)["region"])
		}
	}
}

func TestApplySlicersEmptySelectionIsNoFilter(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	out := ApplySlicers(view, []string{"s-region"}, []*Slicer{regionSlicer()}, table)
	if out != view {
		t.Error("empty selection should short-circuit to the input view")
	}
}

func TestApplySlicersFilterIsolation(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	other := regionSlicer("North")
	other.TableID = "t-other"

	out := ApplySlicers(view, []string{"s-region"}, []*Slicer{other}, table)
	if out != view {
		t.Error("slicer from another table must never be applied")
	}
}

func TestApplySlicersUnknownColumnIgnored(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	s := regionSlicer("North")
	s.ColumnName = "deleted_column"

	out := ApplySlicers(view, []string{"s-region"}, []*Slicer{s}, table)
	if out != view {
		t.Error("slicer on an undeclared column must be discarded")
	}
}

func TestApplySlicersDateRangeMode(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	s := &Slicer{
		ID:             "s-dates",
		ColumnName:     "order_date",
		TableID:        "t-sales",
		FilterMode:     dataset.FilterDateRange,
		SelectedValues: []string{"2026-01-01", "2026-01-31"},
	}

	out := ApplySlicers(view, []string{"s-dates"}, []*Slicer{s}, table)
	if out.Len() != 2 {
		t.Fatalf("expected 2 January rows, got %d", out.Len())
	}
}

func TestApplyDateRangesORSemantics(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	ranges := []DateRange{
		{ID: "r-jan", Name: "January", StartDate: "2026-01-01", EndDate: "2026-01-31"},
		{ID: "r-mar", Name: "March", StartDate: "2026-03-01", EndDate: "2026-03-31"},
	}

	out := ApplyDateRanges(view, []string{"r-jan", "r-mar"}, ranges)
	if out.Len() != 3 {
		t.Fatalf("expected 3 rows (Jan OR Mar), got %d", out.Len())
	}
}

func TestApplyDateRangesInclusiveBounds(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	ranges := []DateRange{{ID: "r", StartDate: "2026-01-05", EndDate: "2026-01-20"}}
	out := ApplyDateRanges(view, []string{"r"}, ranges)
	if out.Len() != 2 {
		t.Fatalf("boundary dates must match inclusively: got %d rows, want 2", out.Len())
	}
}

func TestApplyDateRangesNoActivePassthrough(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	if out := ApplyDateRanges(view, nil, nil); out != view {
		t.Error("no active ranges should return the input view unchanged")
	}
	if out := ApplyDateRanges(view, []string{"missing"}, nil); out != view {
		t.Error("unresolvable range ids should return the input view unchanged")
	}
}

// Row kept iff (matches range A OR range B) AND matches slicer.
func TestDateRangeAndSlicerComposition(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	ranges := []DateRange{
		{ID: "r-jan", StartDate: "2026-01-01", EndDate: "2026-01-31"},
		{ID: "r-feb", StartDate: "2026-02-01", EndDate: "2026-02-28"},
	}

	filtered := ApplyDateRanges(view, []string{"r-jan", "r-feb"}, ranges)
	filtered = ApplySlicers(filtered, []string{"s-region"}, []*Slicer{regionSlicer("North")}, table)

	if filtered.Len() != 2 {
		t.Fatalf("expected 2 rows (North in Jan or Feb), got %d", filtered.Len())
	}
}

func TestFiltersDoNotMutateRows(t *testing.T) {
	table := salesTable()
	view := NewTableView(table)

	ranges := []DateRange{{ID: "r", StartDate: "2026-01-01", EndDate: "2026-01-31"}}
	_ = ApplyDateRanges(view, []string{"r"}, ranges)
	_ = ApplySlicers(view, []string{"s-region"}, []*Slicer{regionSlicer("North")}, table)

	if len(table.Rows) != 4 {
		t.Fatalf("source rows were mutated: %d rows remain", len(table.Rows))
	}
	if table.Rows[0]["amount"] != 100.0 {
		t.Error("source cell values were mutated")
	}
}

func TestSlicerSelectsAll(t *testing.T) {
	s := regionSlicer("North", "South", "East")
	if !s.SelectsAll() {
		t.Error("selection covering every available value should report SelectsAll")
	}
	if regionSlicer("North").SelectsAll() {
		t.Error("partial selection must not report SelectsAll")
	}
	if regionSlicer().SelectsAll() {
		t.Error("empty selection must not report SelectsAll")
	}
}

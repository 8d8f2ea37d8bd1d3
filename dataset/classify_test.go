package dataset

import (
	"fmt"
	"testing"
)

// ============================================================================
// CLASSIFIER TESTS
// ============================================================================

func tableWith(name string, rows []Row, cols ...Column) *Table {
	return &Table{ID: "t-" + name, Name: name, Columns: cols, Rows: rows}
}

func TestClassifyEmptySampleUnfilterable(t *testing.T) {
	table := tableWith("empty", []Row{{"other": "x"}}, Column{Name: "missing", Type: TypeString})
	if _, ok := Classify("missing", []*Table{table}); ok {
		t.Error("column with no sampled values must be unfilterable")
	}
}

func TestClassifyNumericMeasureUnfilterable(t *testing.T) {
	rows := []Row{
		{"amount": 10.5},
		{"amount": "1,200.00"},
		{"amount": 3},
	}
	table := tableWith("m", rows, Column{Name: "amount", Type: TypeNumber})
	if _, ok := Classify("amount", []*Table{table}); ok {
		t.Error("pure numeric columns are reserved for aggregation, never filterable")
	}
}

func TestClassifyDateRangeNeedsNameAndValues(t *testing.T) {
	dateRows := []Row{
		{"created_at": "2026-01-05"},
		{"created_at": "2026-02-11"},
		{"created_at": "2026-03-20"},
	}
	table := tableWith("d", dateRows, Column{Name: "created_at", Type: TypeDate})
	mode, ok := Classify("created_at", []*Table{table})
	if !ok || mode != FilterDateRange {
		t.Fatalf("Classify(created_at) = %v/%v, want date-range", mode, ok)
	}

	// Same values under a non-date name: no date-range proposal.
	renamed := []Row{
		{"label": "2026-01-05"},
		{"label": "2026-02-11"},
		{"label": "2026-03-20"},
	}
	table = tableWith("d2", renamed, Column{Name: "label", Type: TypeString})
	mode, ok = Classify("label", []*Table{table})
	if !ok || mode == FilterDateRange {
		t.Fatalf("name without date indicator must not classify as date-range, got %v", mode)
	}
}

func TestClassifyShortStringsNeverDates(t *testing.T) {
	// Short numeric strings can false-parse as dates ("2026" is a year).
	rows := []Row{
		{"date_code": "2024"},
		{"date_code": "2025"},
		{"date_code": "x512"},
	}
	table := tableWith("s", rows, Column{Name: "date_code", Type: TypeString})
	mode, _ := Classify("date_code", []*Table{table})
	if mode == FilterDateRange {
		t.Error("values of length ≤ 6 must not count as dates")
	}
}

func TestClassifyCardinalityCutoff(t *testing.T) {
	small := make([]Row, 0, 15)
	for i := 0; i < 15; i++ {
		small = append(small, Row{"status": fmt.Sprintf("status-%d", i)})
	}
	table := tableWith("small", small, Column{Name: "status", Type: TypeString})
	if mode, _ := Classify("status", []*Table{table}); mode != FilterMultiSelect {
		t.Errorf("15 distinct values → multi-select, got %v", mode)
	}

	big := make([]Row, 0, 16)
	for i := 0; i < 16; i++ {
		big = append(big, Row{"city": fmt.Sprintf("city-%d", i)})
	}
	table = tableWith("big", big, Column{Name: "city", Type: TypeString})
	if mode, _ := Classify("city", []*Table{table}); mode != FilterDropdown {
		t.Errorf("16 distinct values → dropdown, got %v", mode)
	}
}

func TestClassifySamplesAcrossTables(t *testing.T) {
	a := tableWith("a", []Row{{"region": "North"}}, Column{Name: "region", Type: TypeString})
	b := tableWith("b", []Row{{"region": "South"}}, Column{Name: "region", Type: TypeString})

	mode, ok := Classify("region", []*Table{a, b})
	if !ok || mode != FilterMultiSelect {
		t.Fatalf("Classify across tables = %v/%v", mode, ok)
	}
}

// ============================================================================
// COERCION TESTS
// ============================================================================

func TestCellNumberCoercion(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{10.5, 10.5},
		{3, 3},
		{"42", 42},
		{"1,200.50", 1200.5},
		{"not a number", 0},
		{nil, 0},
		{true, 1},
	}
	for _, tt := range tests {
		if got := CellNumber(tt.in); got != tt.want {
			t.Errorf("CellNumber(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDateFormats(t *testing.T) {
	valid := []string{"2026-01-02", "2026-01-02T15:04:05Z", "01/02/2026", "Jan 2, 2026"}
	for _, s := range valid {
		if _, ok := ParseDate(s); !ok {
			t.Errorf("ParseDate(%q) should succeed", s)
		}
	}
	invalid := []string{"", "hello", "13/45/9999"}
	for _, s := range invalid {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

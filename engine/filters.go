package engine

import (
	"time"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// FILTER EVALUATOR — Date-range stage, then slicer stage
// ============================================================================
// The two stages compose by logical AND overall but differ internally:
// active date ranges are OR'd against any date-parseable field of a row,
// while active slicers must all hold (AND), each against its own column.
// Both stages are pure and short-circuit to the input view in O(1) when
// nothing is active.
// ============================================================================

// ApplyDateRanges keeps rows matching at least one active range. A row
// matches a range when ANY of its fields parses as a date inside the range's
// inclusive bounds — the scan is deliberately column-agnostic and does not
// require a declared date type.
func ApplyDateRanges(view RowView, activeRangeIDs []string, allRanges []DateRange) RowView {
	active := resolveRanges(activeRangeIDs, allRanges)
	if len(active) == 0 {
		return view
	}

	type bounds struct{ start, end time.Time }
	var parsed []bounds
	for _, r := range active {
		start, okS := dataset.ParseDate(r.StartDate)
		end, okE := dataset.ParseDate(r.EndDate)
		if !okS || !okE {
			continue
		}
		parsed = append(parsed, bounds{dataset.DateOnly(start), dataset.DateOnly(end)})
	}
	if len(parsed) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := view.Row(i)
		match := false
	fields:
		for _, v := range row {
			t, ok := dataset.CellTime(v)
			if !ok {
				continue
			}
			day := dataset.DateOnly(t)
			for _, b := range parsed {
				if !day.Before(b.start) && !day.After(b.end) {
					match = true
					break fields
				}
			}
		}
		if match {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// ApplySlicers keeps rows satisfying every effective active slicer. Chart
// scoping drops slicers built against another table (filter isolation) and
// slicers whose column the table does not declare. An empty selection means
// "no filter" and drops out of the active set entirely.
func ApplySlicers(view RowView, activeSlicerIDs []string, allSlicers []*Slicer, table *dataset.Table) RowView {
	active := effectiveSlicers(activeSlicerIDs, allSlicers, table)
	if len(active) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := view.Row(i)
		pass := true
		for _, s := range active {
			if !slicerMatches(s, row) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// effectiveSlicers resolves ids and discards no-op or out-of-scope slicers.
func effectiveSlicers(activeSlicerIDs []string, allSlicers []*Slicer, table *dataset.Table) []*Slicer {
	if len(activeSlicerIDs) == 0 {
		return nil
	}
	byID := make(map[string]*Slicer, len(allSlicers))
	for _, s := range allSlicers {
		byID[s.ID] = s
	}

	var active []*Slicer
	for _, id := range activeSlicerIDs {
		s, ok := byID[id]
		if !ok || !s.HasSelection() {
			continue
		}
		if table != nil {
			if s.TableID != table.ID {
				continue
			}
			if !table.HasColumn(s.ColumnName) {
				continue
			}
		}
		active = append(active, s)
	}
	return active
}

// slicerMatches checks one row against one slicer. Date-range slicers with
// exactly two selected values test an inclusive calendar interval; anything
// else is a plain membership test on the cell's string form.
func slicerMatches(s *Slicer, row dataset.Row) bool {
	cell, ok := row[s.ColumnName]
	if !ok {
		return false
	}

	if s.FilterMode == dataset.FilterDateRange && len(s.SelectedValues) == 2 {
		start, okS := dataset.ParseDate(s.SelectedValues[0])
		end, okE := dataset.ParseDate(s.SelectedValues[1])
		if okS && okE {
			t, okT := dataset.CellTime(cell)
			if !okT {
				return false
			}
			day := dataset.DateOnly(t)
			return !day.Before(dataset.DateOnly(start)) && !day.After(dataset.DateOnly(end))
		}
		// fall through to membership when the bounds do not parse
	}

	val := dataset.CellString(cell)
	for _, sel := range s.SelectedValues {
		if sel == val {
			return true
		}
	}
	return false
}

func resolveRanges(activeRangeIDs []string, allRanges []DateRange) []DateRange {
	if len(activeRangeIDs) == 0 {
		return nil
	}
	byID := make(map[string]DateRange, len(allRanges))
	for _, r := range allRanges {
		byID[r.ID] = r
	}
	var active []DateRange
	for _, id := range activeRangeIDs {
		if r, ok := byID[id]; ok {
			active = append(active, r)
		}
	}
	return active
}

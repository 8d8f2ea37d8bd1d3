package dataset

import (
	"strings"
)

// ============================================================================
// COLUMN CLASSIFIER — Proposes whether/how a column can be filtered
// ============================================================================
// Pure function of the sampled data. Numeric measures never get a filter
// mode: they are reserved for aggregation. The multi-select/dropdown cutoff
// is a UI density heuristic, not a correctness constraint.
// ============================================================================

// FilterMode is the interaction style proposed for a filterable column.
type FilterMode string

const (
	FilterDropdown    FilterMode = "dropdown"
	FilterMultiSelect FilterMode = "multi-select"
	FilterDateRange   FilterMode = "date-range"
)

// Columns whose name hints at date content. Value-level parsing alone is not
// trusted: short numeric strings false-parse as dates too easily.
var dateIndicators = []string{"date", "timestamp", "created_at", "updated_at", "time", "day"}

const multiSelectMax = 15

// Classify inspects the de-duplicated non-null sample of a column across the
// given tables and proposes a FilterMode. The second return is false when the
// column is unfilterable (empty sample or pure numeric measure).
func Classify(columnName string, tables []*Table) (FilterMode, bool) {
	samples := sampleValues(columnName, tables)
	if len(samples) == 0 {
		return "", false
	}

	allNumeric := true
	for _, v := range samples {
		if !IsNumeric(v) {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		return "", false
	}

	if nameSuggestsDate(columnName) && mostlyDates(samples) {
		return FilterDateRange, true
	}

	if len(samples) <= multiSelectMax {
		return FilterMultiSelect, true
	}
	return FilterDropdown, true
}

// SampleValues gathers the de-duplicated, non-null values of a column across
// tables, in first-seen order. Exposed for the slicer registry, which needs
// the same sample to seed availableValues.
func SampleValues(columnName string, tables []*Table) []string {
	vals := sampleValues(columnName, tables)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = CellString(v)
	}
	return out
}

func sampleValues(columnName string, tables []*Table) []any {
	seen := make(map[string]bool)
	var vals []any
	for _, t := range tables {
		for _, row := range t.Rows {
			v, ok := row[columnName]
			if !ok || v == nil {
				continue
			}
			s := CellString(v)
			if IsNullToken(s) || seen[s] {
				continue
			}
			seen[s] = true
			vals = append(vals, v)
		}
	}
	return vals
}

func nameSuggestsDate(columnName string) bool {
	lower := strings.ToLower(columnName)
	for _, ind := range dateIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// mostlyDates requires more than half the sample to parse as dates with
// length > 6. The length guard keeps short numeric strings out.
func mostlyDates(samples []any) bool {
	parsed := 0
	for _, v := range samples {
		s := CellString(v)
		if len(s) <= 6 {
			continue
		}
		if _, ok := ParseDate(s); ok {
			parsed++
		}
	}
	return parsed*2 > len(samples)
}

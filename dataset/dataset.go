package dataset

import (
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// DATASET — In-memory tabular data model
// ============================================================================
// A Table is an ordered sequence of Rows plus declared Columns. Rows are
// open-ended column→value maps; every consumer reads cells through the
// typed accessors below so numeric/date coercion happens in one place.
// ============================================================================

// ColumnType is the declared type of a column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// Column describes one column of a table.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
	Unique   bool       `json:"unique"`
}

// Row is a single data row: column name → scalar value.
type Row map[string]any

// Table is an imported dataset. Rows keep their import order.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether a column with the given name is declared.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColumnNames returns all declared column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ============================================================================
// CELL ACCESSORS — single place for scalar coercion
// ============================================================================

// CellString returns the string form of a cell value. Nil cells yield "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return ""
	}
}

// CellNumber coerces a cell value to float64. Anything that is not a number
// and does not parse as one defaults to 0.
func CellNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// IsNumeric reports whether a raw value reads as a number.
// Currency prefixes and thousands separators are tolerated.
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case float64, float32, int, int64:
		return true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return false
		}
		s = strings.ReplaceAll(s, ",", "")
		for _, prefix := range []string{"$", "€", "£"} {
			s = strings.TrimPrefix(s, prefix)
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

// ============================================================================
// DATE PARSING
// ============================================================================

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// CellTime tries to read a cell value as a calendar date.
func CellTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return ParseDate(x)
	default:
		return time.Time{}, false
	}
}

// ParseDate parses a string against the supported date formats.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly truncates a time to its calendar date (UTC).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsNullToken reports whether a raw string reads as a null marker.
func IsNullToken(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

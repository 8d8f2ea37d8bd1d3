package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ============================================================================
// CSV IMPORT — Decodes CSV bytes into a Table (rows + typed columns)
// ============================================================================
// Column types are inferred from a sample: 80%+ of non-null values must
// match for number/date/boolean, otherwise the column stays a string.
// Malformed rows are skipped, not fatal.
// ============================================================================

// ImportOptions controls import behavior.
type ImportOptions struct {
	SampleSize int // max rows inspected for type detection (0 = 1000)
}

const defaultSampleSize = 1000

// ImportCSV decodes CSV bytes into a Table named name.
func ImportCSV(data []byte, name string, opts ...ImportOptions) (*Table, error) {
	sampleSize := defaultSampleSize
	if len(opts) > 0 && opts[0].SampleSize > 0 {
		sampleSize = opts[0].SampleSize
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}

	var raw [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		raw = append(raw, record)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	return buildTable(name, keys, raw, sampleSize), nil
}

// buildTable infers column types from a sample and materializes typed rows.
func buildTable(name string, keys []string, raw [][]string, sampleSize int) *Table {
	types := make([]ColumnType, len(keys))
	nullable := make([]bool, len(keys))
	uniq := make([]bool, len(keys))

	sample := raw
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	for i := range keys {
		var values []string
		seen := make(map[string]bool)
		nulls := 0
		for _, record := range sample {
			if i >= len(record) || IsNullToken(record[i]) {
				nulls++
				continue
			}
			v := strings.TrimSpace(record[i])
			values = append(values, v)
			seen[v] = true
		}
		types[i] = detectColumnType(values)
		nullable[i] = nulls > 0
		uniq[i] = len(values) > 0 && len(seen) == len(values)
	}

	columns := make([]Column, len(keys))
	for i, k := range keys {
		columns[i] = Column{Name: k, Type: types[i], Nullable: nullable[i], Unique: uniq[i]}
	}

	rows := make([]Row, 0, len(raw))
	for _, record := range raw {
		row := make(Row, len(keys))
		for i, k := range keys {
			if i >= len(record) || IsNullToken(record[i]) {
				continue
			}
			row[k] = coerceCell(strings.TrimSpace(record[i]), types[i])
		}
		rows = append(rows, row)
	}

	return &Table{
		ID:      uuid.NewString(),
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
}

// detectColumnType requires 80%+ of non-null values to match for
// number/date/boolean. Empty samples default to string.
func detectColumnType(values []string) ColumnType {
	if len(values) == 0 {
		return TypeString
	}

	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if IsNumeric(v) {
			numCount++
		}
		if _, ok := ParseDate(v); ok && len(v) > 6 {
			dateCount++
		}
		if isBoolToken(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	switch {
	case boolCount >= threshold && boolCount > 0:
		return TypeBoolean
	case dateCount >= threshold && dateCount > 0:
		return TypeDate
	case numCount >= threshold && numCount > 0:
		return TypeNumber
	default:
		return TypeString
	}
}

// coerceCell converts a raw string into the declared column type.
// Values that fail to convert stay as strings.
func coerceCell(v string, t ColumnType) any {
	switch t {
	case TypeNumber:
		s := strings.ReplaceAll(v, ",", "")
		for _, prefix := range []string{"$", "€", "£"} {
			s = strings.TrimPrefix(s, prefix)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case TypeBoolean:
		switch strings.ToLower(v) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	// Dates stay as their string form so date-range filters can re-parse
	// them alongside undeclared date-like columns.
	return v
}

func isBoolToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(r)
	}

	out := strings.ToLower(b.String())
	out = strings.ReplaceAll(out, " ", "_")
	out = strings.ReplaceAll(out, "-", "_")
	out = strings.ReplaceAll(out, "__", "_")
	return strings.Trim(out, "_")
}

package dataset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// XLSX IMPORT — Decodes the first sheet of an Excel workbook into a Table
// ============================================================================

// ImportXLSX decodes the given sheet of an Excel workbook. An empty sheet
// name selects the workbook's first sheet. Type detection follows ImportCSV.
func ImportXLSX(data []byte, name, sheet string, opts ...ImportOptions) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := rows[0]
	if len(headers) == 0 {
		return nil, fmt.Errorf("sheet %q has no columns", sheet)
	}
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}

	raw := rows[1:]
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	sampleSize := defaultSampleSize
	if len(opts) > 0 && opts[0].SampleSize > 0 {
		sampleSize = opts[0].SampleSize
	}

	return buildTable(name, keys, raw, sampleSize), nil
}

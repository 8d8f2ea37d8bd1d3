package engine

import (
	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// ROW VIEW — Zero-copy access to a table's rows
// ============================================================================
// Filter stages never copy or mutate rows. They either return their input
// view unchanged (nothing active) or a SubView holding indices into it.
// ============================================================================

// RowView provides indexed, read-only access to a row collection.
type RowView interface {
	Len() int
	Row(i int) dataset.Row
}

// TableView wraps a table's row slice as a RowView.
type TableView struct {
	rows []dataset.Row
}

// NewTableView creates a RowView over a table's rows.
func NewTableView(t *dataset.Table) RowView {
	return &TableView{rows: t.Rows}
}

// NewRowsView creates a RowView over a raw row slice.
func NewRowsView(rows []dataset.Row) RowView {
	return &TableView{rows: rows}
}

func (v *TableView) Len() int { return len(v.rows) }

func (v *TableView) Row(i int) dataset.Row {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.rows[i]
}

// SubView is a filtered subset of a parent view: indices, no data copy.
type SubView struct {
	parent  RowView
	indices []int
}

func newSubView(parent RowView, indices []int) RowView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Row(i int) dataset.Row {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Row(v.indices[i])
}

// Rows materializes a view back into a row slice. Test and CLI convenience;
// the pipeline itself never needs it.
func Rows(v RowView) []dataset.Row {
	out := make([]dataset.Row, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.Row(i)
	}
	return out
}

package project

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facet-org/facet/dataset"
	"github.com/facet-org/facet/engine"
)

// ============================================================================
// SLICER REGISTRY — CRUD over named filter definitions
// ============================================================================

// ErrSelectionNotAvailable is returned when a selection includes a value the
// slicer does not offer. Invariant: selectedValues ⊆ availableValues.
var ErrSelectionNotAvailable = errors.New("project: selected value not in available values")

// CreateSlicer registers a new slicer with a fresh id and an empty selection
// (empty selection means "no filter / all values").
func (p *Project) CreateSlicer(name, columnName string, kind engine.SlicerKind, tableID string, availableValues []string, mode dataset.FilterMode) *engine.Slicer {
	now := time.Now()
	s := &engine.Slicer{
		ID:              uuid.NewString(),
		Name:            name,
		ColumnName:      columnName,
		TableID:         tableID,
		Kind:            kind,
		FilterMode:      mode,
		SelectedValues:  []string{},
		AvailableValues: availableValues,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Slicers = append(p.Slicers, s)
	return s
}

// SlicerByID looks a slicer up by id.
func (p *Project) SlicerByID(id string) (*engine.Slicer, bool) {
	for _, s := range p.Slicers {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// SetSlicerSelection replaces a slicer's selection. Date-range slicers take
// their bounds verbatim; categorical selections must stay within the
// available value set.
func (p *Project) SetSlicerSelection(id string, values []string) error {
	s, ok := p.SlicerByID(id)
	if !ok {
		return ErrSlicerNotFound
	}

	if s.FilterMode != dataset.FilterDateRange {
		avail := make(map[string]bool, len(s.AvailableValues))
		for _, v := range s.AvailableValues {
			avail[v] = true
		}
		for _, v := range values {
			if !avail[v] {
				return ErrSelectionNotAvailable
			}
		}
	}

	s.SelectedValues = append([]string{}, values...)
	s.UpdatedAt = time.Now()
	return nil
}

// DeleteSlicer removes a slicer and cascades: the id leaves every chart's
// AppliedSlicers and every association record referencing it is dropped.
func (p *Project) DeleteSlicer(id string) error {
	if _, ok := p.SlicerByID(id); !ok {
		return ErrSlicerNotFound
	}

	kept := p.Slicers[:0]
	for _, s := range p.Slicers {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	p.Slicers = kept

	links := p.Links[:0]
	for _, l := range p.Links {
		if l.SlicerID != id {
			links = append(links, l)
		}
	}
	p.Links = links

	for _, c := range p.Charts {
		p.syncApplied(c)
	}
	return nil
}

// ============================================================================
// UNIVERSAL SLICER DETECTION
// ============================================================================

// DetectUniversalSlicers returns the columns eligible to act as one logical
// filter across tables. A column qualifies when it appears in at least two
// tables, its declared types are compatible (identical, or a string/number
// mix), and the normalized value sets of at least two of those tables
// overlap. With a single table every filterable column trivially qualifies.
func DetectUniversalSlicers(tables []*dataset.Table) []string {
	if len(tables) == 0 {
		return nil
	}
	if len(tables) == 1 {
		var out []string
		for _, c := range tables[0].Columns {
			if _, ok := dataset.Classify(c.Name, tables); ok {
				out = append(out, c.Name)
			}
		}
		return out
	}

	byColumn := make(map[string][]occurrence)
	var order []string

	for _, t := range tables {
		for _, c := range t.Columns {
			if _, seen := byColumn[c.Name]; !seen {
				order = append(order, c.Name)
			}
			byColumn[c.Name] = append(byColumn[c.Name], occurrence{
				colType: c.Type,
				values:  normalizedValues(t, c.Name),
			})
		}
	}

	var out []string
	for _, name := range order {
		occ := byColumn[name]
		if len(occ) < 2 {
			continue
		}
		if !typesCompatible(occ[0].colType, occ) {
			continue
		}
		if !anyOverlap(occ) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// occurrence is one table's view of a shared column name.
type occurrence struct {
	colType dataset.ColumnType
	values  map[string]bool
}

// typesCompatible accepts identical declared types or a string/number mix
// (treated as compatible for categorical filtering).
func typesCompatible(first dataset.ColumnType, occ []occurrence) bool {
	stringOrNumber := func(t dataset.ColumnType) bool {
		return t == dataset.TypeString || t == dataset.TypeNumber
	}
	for _, o := range occ {
		if o.colType == first {
			continue
		}
		if stringOrNumber(o.colType) && stringOrNumber(first) {
			continue
		}
		return false
	}
	return true
}

// anyOverlap checks for a non-empty value intersection between at least two
// of the column's tables.
func anyOverlap(occ []occurrence) bool {
	for i := 0; i < len(occ); i++ {
		for j := i + 1; j < len(occ); j++ {
			for v := range occ[i].values {
				if occ[j].values[v] {
					return true
				}
			}
		}
	}
	return false
}

// normalizedValues collects a table column's case/trim-normalized values.
func normalizedValues(t *dataset.Table, columnName string) map[string]bool {
	out := make(map[string]bool)
	for _, row := range t.Rows {
		v, ok := row[columnName]
		if !ok || v == nil {
			continue
		}
		s := strings.ToLower(strings.TrimSpace(dataset.CellString(v)))
		if s != "" {
			out[s] = true
		}
	}
	return out
}

// ============================================================================
// DATE RANGES
// ============================================================================

// CreateDateRange registers a named inclusive date range.
func (p *Project) CreateDateRange(name, startDate, endDate string) *engine.DateRange {
	r := &engine.DateRange{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
	}
	p.DateRanges = append(p.DateRanges, r)
	return r
}

// DeleteDateRange removes a named range and clears it from the active
// selection.
func (p *Project) DeleteDateRange(id string) {
	kept := p.DateRanges[:0]
	for _, r := range p.DateRanges {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	p.DateRanges = kept

	active := p.ActiveDateRanges[:0]
	for _, a := range p.ActiveDateRanges {
		if a != id {
			active = append(active, a)
		}
	}
	p.ActiveDateRanges = active
}

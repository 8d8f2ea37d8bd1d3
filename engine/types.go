package engine

import (
	"time"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// ENGINE TYPES — Charts, slicers, date ranges, render-ready output
// ============================================================================

// SlicerKind scopes a slicer to one table or marks it reusable across tables.
type SlicerKind string

const (
	KindUniversal     SlicerKind = "universal"
	KindTableSpecific SlicerKind = "table-specific"
)

// Slicer is a named, reusable filter bound to one column of one table.
// An empty SelectedValues means "no filter", never "exclude everything".
// Invariant: SelectedValues ⊆ AvailableValues.
type Slicer struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	ColumnName      string             `json:"columnName"`
	TableID         string             `json:"tableId"`
	Kind            SlicerKind         `json:"kind"`
	FilterMode      dataset.FilterMode `json:"filterMode"`
	SelectedValues  []string           `json:"selectedValues"`
	AvailableValues []string           `json:"availableValues"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// HasSelection reports whether the slicer actually filters anything.
func (s *Slicer) HasSelection() bool {
	return len(s.SelectedValues) > 0
}

// SelectsAll reports whether the selection covers every available value,
// which is filter-equivalent to no selection at all.
func (s *Slicer) SelectsAll() bool {
	if len(s.SelectedValues) == 0 || len(s.AvailableValues) == 0 {
		return false
	}
	avail := make(map[string]bool, len(s.AvailableValues))
	for _, v := range s.AvailableValues {
		avail[v] = true
	}
	selected := make(map[string]bool, len(s.SelectedValues))
	for _, v := range s.SelectedValues {
		if !avail[v] {
			return false
		}
		selected[v] = true
	}
	return len(selected) == len(avail)
}

// DateRange is a named inclusive calendar interval. It is independent of any
// table or column: it matches any row field that parses as a date.
type DateRange struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"` // ISO date, inclusive
	EndDate   string `json:"endDate"`   // ISO date, inclusive
}

// ============================================================================
// CHART CONFIGURATION
// ============================================================================

// MainTableID is the sentinel pointing a chart at the project's primary table.
const MainTableID = "main"

// Chart template identifiers. The reshape dispatcher switches on these.
const (
	TemplateSimpleBar      = "simple-bar"
	TemplateMultiSeriesBar = "multi-series-bar"
	TemplateStackedBar     = "stacked-bar"
	TemplateSimpleLine     = "simple-line"
	TemplateMultiLine      = "multi-line"
	TemplateArea           = "area"
	TemplatePie            = "pie"
	TemplateScatter        = "scatter"
)

// Aggregation is the reduction applied to grouped measure values.
type Aggregation string

const (
	AggSum     Aggregation = "sum"
	AggAverage Aggregation = "average"
	AggCount   Aggregation = "count"
	AggMin     Aggregation = "min"
	AggMax     Aggregation = "max"
	AggNone    Aggregation = "none" // deterministic first-wins sampling
)

// ChartConfig drives the data pipeline for one chart. Which fields are
// required depends on TemplateID; the reshape dispatcher validates its own
// branch and falls back to placeholder data when required fields are unset.
type ChartConfig struct {
	TableID        string      `json:"tableId"` // table id or the "main" sentinel
	TemplateID     string      `json:"templateId"`
	XAxisField     string      `json:"xAxisField,omitempty"`
	YAxisField     string      `json:"yAxisField,omitempty"`
	SeriesField    string      `json:"seriesField,omitempty"`
	CategoryField  string      `json:"categoryField,omitempty"`
	ValueField     string      `json:"valueField,omitempty"`
	Aggregation    Aggregation `json:"aggregation,omitempty"`
	AppliedSlicers []string    `json:"appliedSlicers,omitempty"`
}

// SourceTableID normalizes an unset table reference to the "main" sentinel.
func (c ChartConfig) SourceTableID() string {
	if c.TableID == "" {
		return MainTableID
	}
	return c.TableID
}

// Chart is a user-defined chart over one source table.
type Chart struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Config    ChartConfig `json:"config"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ============================================================================
// CHART DATA — renderer-ready output
// ============================================================================

// ScatterPoint is one paired-numeric data point.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset is one chart series. Exactly one of Values/Points is populated;
// both serialize under the "data" key the renderer expects.
type Dataset struct {
	Label  string         `json:"label"`
	Values []float64      `json:"-"`
	Points []ScatterPoint `json:"-"`
}

// ChartData is the pipeline's renderer-ready output. It is never mutated
// after construction; every recompute builds a fresh value.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

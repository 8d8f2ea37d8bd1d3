package project

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/facet-org/facet/analysis"
	"github.com/facet-org/facet/dataset"
	"github.com/facet-org/facet/engine"
)

// ============================================================================
// PROJECT — Owns tables, charts, slicers, date ranges, and associations
// ============================================================================
// Single-writer from the caller's perspective: all mutations run on one
// goroutine, so the container itself carries no locks. The analysis cache
// (which async generation writes into) synchronizes internally.
// ============================================================================

var (
	ErrTableNotFound  = errors.New("project: table not found")
	ErrChartNotFound  = errors.New("project: chart not found")
	ErrSlicerNotFound = errors.New("project: slicer not found")
)

// ChartSlicerLink is one chart↔slicer association record. It is maintained
// alongside each chart's AppliedSlicers id list; the redundancy buys fast
// lookup from both directions, and every mutation updates both views.
type ChartSlicerLink struct {
	ChartID  string `json:"chartId"`
	SlicerID string `json:"slicerId"`
	Enabled  bool   `json:"enabled"`
}

// Project is the top-level container.
type Project struct {
	Name       string              `json:"name"`
	Tables     []*dataset.Table    `json:"tables"`
	Charts     []*engine.Chart     `json:"charts"`
	Slicers    []*engine.Slicer    `json:"slicers"`
	DateRanges []*engine.DateRange `json:"dateRanges"`
	Links      []ChartSlicerLink   `json:"links"`

	// ActiveDateRanges is the current date-range selection, applied to
	// every chart on recompute.
	ActiveDateRanges []string `json:"activeDateRanges"`

	Analyses *analysis.Cache `json:"-"`
}

// New creates an empty project.
func New(name string) *Project {
	return &Project{
		Name:     name,
		Analyses: analysis.NewCache(),
	}
}

// ============================================================================
// TABLES
// ============================================================================

// PrimaryTable returns the project's main table (the first imported one).
func (p *Project) PrimaryTable() *dataset.Table {
	if len(p.Tables) == 0 {
		return nil
	}
	return p.Tables[0]
}

// TableByID looks a table up by id.
func (p *Project) TableByID(id string) (*dataset.Table, bool) {
	for _, t := range p.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AddTable appends an imported table.
func (p *Project) AddTable(t *dataset.Table) {
	p.Tables = append(p.Tables, t)
}

// RenameTable changes a table's display name.
func (p *Project) RenameTable(id, name string) error {
	t, ok := p.TableByID(id)
	if !ok {
		return ErrTableNotFound
	}
	t.Name = name
	return nil
}

// DeleteTable removes a table and cascades: dependent charts are deleted
// (with their analyses), and slicers built against the table are removed
// from every chart.
func (p *Project) DeleteTable(id string) error {
	if _, ok := p.TableByID(id); !ok {
		return ErrTableNotFound
	}

	for _, c := range p.chartsOnTable(id) {
		_ = p.DeleteChart(c.ID)
	}
	for _, s := range p.slicersOnTable(id) {
		_ = p.DeleteSlicer(s.ID)
	}

	kept := p.Tables[:0]
	for _, t := range p.Tables {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	p.Tables = kept
	return nil
}

func (p *Project) chartsOnTable(tableID string) []*engine.Chart {
	var out []*engine.Chart
	for _, c := range p.Charts {
		if c.Config.TableID == tableID {
			out = append(out, c)
		}
	}
	return out
}

func (p *Project) slicersOnTable(tableID string) []*engine.Slicer {
	var out []*engine.Slicer
	for _, s := range p.Slicers {
		if s.TableID == tableID {
			out = append(out, s)
		}
	}
	return out
}

// ============================================================================
// CHARTS
// ============================================================================

// CreateChart registers a new chart, assigning a fresh id.
func (p *Project) CreateChart(name, chartType string, cfg engine.ChartConfig) *engine.Chart {
	now := time.Now()
	chart := &engine.Chart{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      chartType,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Charts = append(p.Charts, chart)
	return chart
}

// ChartByID looks a chart up by id.
func (p *Project) ChartByID(id string) (*engine.Chart, bool) {
	for _, c := range p.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// DeleteChart removes a chart, its association records, and its entire
// analysis sub-map.
func (p *Project) DeleteChart(id string) error {
	if _, ok := p.ChartByID(id); !ok {
		return ErrChartNotFound
	}

	kept := p.Charts[:0]
	for _, c := range p.Charts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.Charts = kept

	links := p.Links[:0]
	for _, l := range p.Links {
		if l.ChartID != id {
			links = append(links, l)
		}
	}
	p.Links = links

	p.Analyses.DropChart(id)
	return nil
}

// ============================================================================
// CHART↔SLICER ASSOCIATIONS — both views updated in one mutation
// ============================================================================

// AttachSlicer applies a slicer to a chart: the id joins AppliedSlicers and
// an enabled link record is created. Attaching twice is a no-op.
func (p *Project) AttachSlicer(chartID, slicerID string) error {
	chart, ok := p.ChartByID(chartID)
	if !ok {
		return ErrChartNotFound
	}
	if _, ok := p.SlicerByID(slicerID); !ok {
		return ErrSlicerNotFound
	}

	for i, l := range p.Links {
		if l.ChartID == chartID && l.SlicerID == slicerID {
			p.Links[i].Enabled = true
			p.syncApplied(chart)
			return nil
		}
	}
	p.Links = append(p.Links, ChartSlicerLink{ChartID: chartID, SlicerID: slicerID, Enabled: true})
	p.syncApplied(chart)
	chart.UpdatedAt = time.Now()
	return nil
}

// DetachSlicer removes a slicer from a chart entirely: both the id list
// entry and the link record go.
func (p *Project) DetachSlicer(chartID, slicerID string) error {
	chart, ok := p.ChartByID(chartID)
	if !ok {
		return ErrChartNotFound
	}

	links := p.Links[:0]
	for _, l := range p.Links {
		if !(l.ChartID == chartID && l.SlicerID == slicerID) {
			links = append(links, l)
		}
	}
	p.Links = links
	p.syncApplied(chart)
	chart.UpdatedAt = time.Now()
	return nil
}

// ToggleSlicer flips a link's enabled flag. Disabled slicers keep their
// association record but drop out of the chart's AppliedSlicers list.
func (p *Project) ToggleSlicer(chartID, slicerID string, enabled bool) error {
	chart, ok := p.ChartByID(chartID)
	if !ok {
		return ErrChartNotFound
	}
	for i, l := range p.Links {
		if l.ChartID == chartID && l.SlicerID == slicerID {
			p.Links[i].Enabled = enabled
			p.syncApplied(chart)
			chart.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrSlicerNotFound
}

// syncApplied rebuilds a chart's AppliedSlicers from the link records so the
// two views can never drift.
func (p *Project) syncApplied(chart *engine.Chart) {
	var applied []string
	for _, l := range p.Links {
		if l.ChartID == chart.ID && l.Enabled {
			applied = append(applied, l.SlicerID)
		}
	}
	chart.Config.AppliedSlicers = applied
}

// ============================================================================
// PIPELINE FRONT DOOR
// ============================================================================

// ChartData computes the renderer-ready output for one chart under the
// project's current date-range selection. nil means "no data".
func (p *Project) ChartData(chartID string) (*engine.ChartData, error) {
	chart, ok := p.ChartByID(chartID)
	if !ok {
		return nil, ErrChartNotFound
	}
	ranges := make([]engine.DateRange, len(p.DateRanges))
	for i, r := range p.DateRanges {
		ranges[i] = *r
	}
	return engine.ComputeChartData(chart, p.Tables, p.ActiveDateRanges, ranges, p.Slicers), nil
}

// FingerprintFor encodes a chart's current effective filter state, resolving
// the "main" sentinel to the primary table's actual id so slicer isolation
// in the fingerprint matches the evaluator's.
func (p *Project) FingerprintFor(chart *engine.Chart) string {
	tableID := chart.Config.SourceTableID()
	if tableID == engine.MainTableID {
		if t := p.PrimaryTable(); t != nil {
			tableID = t.ID
		}
	}
	return analysis.Fingerprint(chart, tableID, p.ActiveDateRanges, p.Slicers)
}

package engine

import (
	"log"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// CHART DATA PIPELINE — resolve table → filter → aggregate/reshape
// ============================================================================
// Output contract:
//   nil          broken table reference, or zero rows after filtering
//   placeholder  configuration incomplete, or a panic during reshape
//   real data    everything else
// The pipeline never propagates a panic to the caller.
// ============================================================================

// ComputeChartData runs the full pipeline for one chart. tables[0] is the
// project's primary table, used when the chart's tableId is absent or the
// "main" sentinel. A non-sentinel id that resolves to no table is a broken
// reference: nil, logged, never an error.
func ComputeChartData(chart *Chart, tables []*dataset.Table, activeRangeIDs []string, allRanges []DateRange, allSlicers []*Slicer) (out *ChartData) {
	table := resolveTable(chart.Config, tables)
	if table == nil {
		log.Printf("⚠️ facet: chart %q references missing table %q", chart.Name, chart.Config.TableID)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ facet: chart %q pipeline panic: %v — serving placeholder", chart.Name, r)
			out = SampleChartData(chart.Config.TemplateID)
		}
	}()

	view := NewTableView(table)
	view = ApplyDateRanges(view, activeRangeIDs, allRanges)
	view = ApplySlicers(view, chart.Config.AppliedSlicers, allSlicers, table)

	if view.Len() == 0 {
		return nil
	}

	return Reshape(view, chart.Config)
}

// resolveTable maps a chart's table reference onto an actual table.
func resolveTable(cfg ChartConfig, tables []*dataset.Table) *dataset.Table {
	if cfg.SourceTableID() == MainTableID {
		if len(tables) == 0 {
			return nil
		}
		return tables[0]
	}
	for _, t := range tables {
		if t.ID == cfg.TableID {
			return t
		}
	}
	return nil
}

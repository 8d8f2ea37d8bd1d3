// Package facet provides the chart data pipeline behind a slicer-driven
// dashboard: import tabular data, define charts over it, and compose
// independent categorical/date-range filters per chart.
//
// Usage:
//
//	import "github.com/facet-org/facet/engine"
//
//	data := engine.ComputeChartData(chart, tables, activeRanges, ranges, slicers)
//
// The pipeline resolves the chart's source table, filters its rows through
// the active slicers and date ranges, and aggregates the survivors into a
// renderer-ready series structure. nil output means "no data"; a placeholder
// dataset means "configuration incomplete". AI narrative analysis is cached
// per exact filter state (see the analysis package) and never regenerated
// for a filter combination already analyzed.
//
// All computation is local and synchronous; the analysis generator is the
// only component that calls an external service.
package facet

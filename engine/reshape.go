package engine

import (
	"fmt"
	"math"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// AGGREGATION & RESHAPE — Filtered rows + config → renderer-ready series
// ============================================================================
// Dispatches on TemplateID:
//   pie                      → categorical: group category, reduce value
//   scatter                  → paired numeric: one {x,y} point per row
//   stacked/multi + series   → dense series×label matrix, 0 for empty cells
//   everything else          → single series grouped by x
// Missing required fields are not an error: each branch falls back to its
// template's placeholder so the UI always has something to render.
// ============================================================================

const unknownLabel = "Unknown"

// Reshape groups, aggregates, and reshapes a filtered row view into
// ChartData per the chart configuration.
func Reshape(view RowView, cfg ChartConfig) *ChartData {
	switch cfg.TemplateID {
	case TemplatePie:
		if cfg.CategoryField == "" || cfg.ValueField == "" {
			return SampleChartData(cfg.TemplateID)
		}
		return reshapeCategorical(view, cfg)

	case TemplateScatter:
		if cfg.XAxisField == "" || cfg.YAxisField == "" {
			return SampleChartData(cfg.TemplateID)
		}
		return reshapeScatter(view, cfg)

	case TemplateStackedBar, TemplateMultiSeriesBar, TemplateMultiLine:
		if cfg.SeriesField != "" {
			if cfg.XAxisField == "" || cfg.YAxisField == "" {
				return SampleChartData(cfg.TemplateID)
			}
			return reshapeMultiSeries(view, cfg)
		}
		fallthrough

	default:
		if cfg.XAxisField == "" || cfg.YAxisField == "" {
			return SampleChartData(cfg.TemplateID)
		}
		return reshapeSingleSeries(view, cfg)
	}
}

// ============================================================================
// TEMPLATE BRANCHES
// ============================================================================

// reshapeCategorical groups rows by category and reduces the value field.
// Group keys keep first-seen order.
func reshapeCategorical(view RowView, cfg ChartConfig) *ChartData {
	var order []string
	grouped := make(map[string][]float64)

	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)
		key := labelFor(row[cfg.CategoryField])
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], dataset.CellNumber(row[cfg.ValueField]))
	}

	values := make([]float64, len(order))
	for i, key := range order {
		values[i] = roundTo3(reduce(grouped[key], cfg.Aggregation))
	}

	return &ChartData{
		Labels:   order,
		Datasets: []Dataset{{Label: cfg.ValueField, Values: values}},
	}
}

// reshapeScatter emits one point per row, no aggregation.
func reshapeScatter(view RowView, cfg ChartConfig) *ChartData {
	n := view.Len()
	labels := make([]string, n)
	points := make([]ScatterPoint, n)
	for i := 0; i < n; i++ {
		row := view.Row(i)
		labels[i] = fmt.Sprintf("Point %d", i+1)
		points[i] = ScatterPoint{
			X: roundTo3(dataset.CellNumber(row[cfg.XAxisField])),
			Y: roundTo3(dataset.CellNumber(row[cfg.YAxisField])),
		}
	}
	return &ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Label: cfg.YAxisField, Points: points}},
	}
}

// reshapeMultiSeries builds a dense matrix: one dataset per distinct series
// value, one slot per distinct x value, 0 where no rows match the pair.
func reshapeMultiSeries(view RowView, cfg ChartConfig) *ChartData {
	var labels []string
	labelIdx := make(map[string]int)
	var seriesOrder []string
	cells := make(map[string]map[string][]float64) // series → label → y values

	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)
		x := labelFor(row[cfg.XAxisField])
		series := labelFor(row[cfg.SeriesField])

		if _, seen := labelIdx[x]; !seen {
			labelIdx[x] = len(labels)
			labels = append(labels, x)
		}
		if _, seen := cells[series]; !seen {
			seriesOrder = append(seriesOrder, series)
			cells[series] = make(map[string][]float64)
		}
		cells[series][x] = append(cells[series][x], dataset.CellNumber(row[cfg.YAxisField]))
	}

	datasets := make([]Dataset, 0, len(seriesOrder))
	for _, series := range seriesOrder {
		values := make([]float64, len(labels))
		for j, x := range labels {
			if ys := cells[series][x]; len(ys) > 0 {
				values[j] = roundTo3(reduce(ys, cfg.Aggregation))
			}
		}
		datasets = append(datasets, Dataset{Label: series, Values: values})
	}

	return &ChartData{Labels: labels, Datasets: datasets}
}

// reshapeSingleSeries groups rows by x and reduces the y field.
func reshapeSingleSeries(view RowView, cfg ChartConfig) *ChartData {
	var order []string
	grouped := make(map[string][]float64)

	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)
		key := labelFor(row[cfg.XAxisField])
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], dataset.CellNumber(row[cfg.YAxisField]))
	}

	values := make([]float64, len(order))
	for i, key := range order {
		values[i] = roundTo3(reduce(grouped[key], cfg.Aggregation))
	}

	return &ChartData{
		Labels:   order,
		Datasets: []Dataset{{Label: cfg.YAxisField, Values: values}},
	}
}

// ============================================================================
// REDUCTIONS
// ============================================================================

// reduce applies the configured aggregation to a group's values. "none" is
// not a pass-through: it is a deterministic first-wins sample of the group.
func reduce(values []float64, agg Aggregation) float64 {
	if len(values) == 0 {
		return 0
	}
	switch agg {
	case AggAverage:
		return sum(values) / float64(len(values))
	case AggCount:
		return float64(len(values))
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case AggNone:
		return values[0]
	default: // AggSum and unset
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// roundTo3 rounds to 3 decimal places to suppress floating-point noise.
func roundTo3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// labelFor turns a cell into a group key; missing/empty cells group under
// "Unknown".
func labelFor(v any) string {
	s := dataset.CellString(v)
	if s == "" {
		return unknownLabel
	}
	return s
}

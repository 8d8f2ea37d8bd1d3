package engine

// ============================================================================
// PLACEHOLDER DATA — Fixed sample series per chart template
// ============================================================================
// Returned while a chart's configuration is incomplete, so the renderer
// always has something to draw. Distinct from the nil "no data" output:
// placeholder fires on missing configuration, nil on missing rows or a
// broken table reference.
// ============================================================================

var sampleLabels = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}

// SampleChartData returns the fixed demo dataset for a chart template.
func SampleChartData(templateID string) *ChartData {
	switch templateID {
	case TemplatePie:
		return &ChartData{
			Labels: []string{"Alpha", "Beta", "Gamma", "Delta"},
			Datasets: []Dataset{{
				Label:  "Sample",
				Values: []float64{35, 25, 22, 18},
			}},
		}

	case TemplateScatter:
		return &ChartData{
			Labels: []string{"Point 1", "Point 2", "Point 3", "Point 4", "Point 5"},
			Datasets: []Dataset{{
				Label: "Sample",
				Points: []ScatterPoint{
					{X: 10, Y: 20}, {X: 25, Y: 34}, {X: 38, Y: 28},
					{X: 52, Y: 61}, {X: 70, Y: 55},
				},
			}},
		}

	case TemplateStackedBar, TemplateMultiSeriesBar, TemplateMultiLine:
		return &ChartData{
			Labels: sampleLabels,
			Datasets: []Dataset{
				{Label: "Series A", Values: []float64{12, 19, 8, 15, 11}},
				{Label: "Series B", Values: []float64{8, 11, 14, 9, 16}},
			},
		}

	default: // simple-bar, simple-line, area, unknown templates
		return &ChartData{
			Labels: sampleLabels,
			Datasets: []Dataset{{
				Label:  "Sample",
				Values: []float64{12, 19, 8, 15, 11},
			}},
		}
	}
}

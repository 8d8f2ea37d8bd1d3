package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/facet-org/facet/dataset"
)

// ============================================================================
// AGGREGATION & RESHAPE TESTS
// ============================================================================

func rowsView(rows ...dataset.Row) RowView {
	return NewRowsView(rows)
}

func TestSingleSeriesAverageAndCount(t *testing.T) {
	view := rowsView(
		dataset.Row{"x": "A", "y": 10.0},
		dataset.Row{"x": "A", "y": 20.0},
		dataset.Row{"x": "B", "y": 5.0},
	)

	cfg := ChartConfig{TemplateID: TemplateSimpleBar, XAxisField: "x", YAxisField: "y", Aggregation: AggAverage}
	data := Reshape(view, cfg)

	assertLabels(t, data, "A", "B")
	assertValues(t, data.Datasets[0].Values, 15, 5)

	cfg.Aggregation = AggCount
	data = Reshape(view, cfg)
	assertValues(t, data.Datasets[0].Values, 2, 1)
}

func TestPieSumReduction(t *testing.T) {
	view := rowsView(
		dataset.Row{"category": "X", "value": 1.0},
		dataset.Row{"category": "X", "value": 2.0},
		dataset.Row{"category": "Y", "value": 3.0},
	)

	data := Reshape(view, ChartConfig{
		TemplateID:    TemplatePie,
		CategoryField: "category",
		ValueField:    "value",
		Aggregation:   AggSum,
	})

	assertLabels(t, data, "X", "Y")
	assertValues(t, data.Datasets[0].Values, 3, 3)
}

func TestPieMissingCategoryGroupsUnderUnknown(t *testing.T) {
	view := rowsView(
		dataset.Row{"value": 5.0},
		dataset.Row{"category": "", "value": 7.0},
		dataset.Row{"category": "Z", "value": 1.0},
	)

	data := Reshape(view, ChartConfig{
		TemplateID:    TemplatePie,
		CategoryField: "category",
		ValueField:    "value",
		Aggregation:   AggSum,
	})

	assertLabels(t, data, "Unknown", "Z")
	assertValues(t, data.Datasets[0].Values, 12, 1)
}

func TestMultiSeriesDenseMatrix(t *testing.T) {
	view := rowsView(
		dataset.Row{"month": "Jan", "team": "Blue", "points": 4.0},
		dataset.Row{"month": "Feb", "team": "Blue", "points": 6.0},
		dataset.Row{"month": "Jan", "team": "Red", "points": 3.0},
		// Red has no Feb rows: the matrix must still be dense.
	)

	data := Reshape(view, ChartConfig{
		TemplateID:  TemplateStackedBar,
		XAxisField:  "month",
		YAxisField:  "points",
		SeriesField: "team",
		Aggregation: AggSum,
	})

	assertLabels(t, data, "Jan", "Feb")
	if len(data.Datasets) != 2 {
		t.Fatalf("expected 2 series, got %d", len(data.Datasets))
	}
	if data.Datasets[0].Label != "Blue" || data.Datasets[1].Label != "Red" {
		t.Fatalf("series order should be first-seen: %s, %s", data.Datasets[0].Label, data.Datasets[1].Label)
	}
	assertValues(t, data.Datasets[0].Values, 4, 6)
	assertValues(t, data.Datasets[1].Values, 3, 0)
}

func TestScatterOnePointPerRow(t *testing.T) {
	view := rowsView(
		dataset.Row{"w": 1.5, "h": 2.0},
		dataset.Row{"w": "not a number", "h": 4.0},
	)

	data := Reshape(view, ChartConfig{
		TemplateID: TemplateScatter,
		XAxisField: "w",
		YAxisField: "h",
	})

	assertLabels(t, data, "Point 1", "Point 2")
	pts := data.Datasets[0].Points
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].X != 1.5 || pts[0].Y != 2 {
		t.Errorf("point 1 = %+v", pts[0])
	}
	if pts[1].X != 0 {
		t.Errorf("non-numeric x must coerce to 0, got %v", pts[1].X)
	}
}

func TestAggregationNoneIsFirstWins(t *testing.T) {
	view := rowsView(
		dataset.Row{"x": "A", "y": 42.0},
		dataset.Row{"x": "A", "y": 7.0},
	)

	data := Reshape(view, ChartConfig{TemplateID: TemplateSimpleLine, XAxisField: "x", YAxisField: "y", Aggregation: AggNone})
	assertValues(t, data.Datasets[0].Values, 42)
}

func TestMinMaxReductions(t *testing.T) {
	view := rowsView(
		dataset.Row{"x": "A", "y": 9.0},
		dataset.Row{"x": "A", "y": -3.0},
		dataset.Row{"x": "A", "y": 4.0},
	)

	data := Reshape(view, ChartConfig{TemplateID: TemplateSimpleBar, XAxisField: "x", YAxisField: "y", Aggregation: AggMin})
	assertValues(t, data.Datasets[0].Values, -3)

	data = Reshape(view, ChartConfig{TemplateID: TemplateSimpleBar, XAxisField: "x", YAxisField: "y", Aggregation: AggMax})
	assertValues(t, data.Datasets[0].Values, 9)
}

func TestRoundingToThreeDecimals(t *testing.T) {
	view := rowsView(
		dataset.Row{"x": "A", "y": 1.0},
		dataset.Row{"x": "A", "y": 2.0},
		dataset.Row{"x": "A", "y": 2.0},
	)

	data := Reshape(view, ChartConfig{TemplateID: TemplateSimpleBar, XAxisField: "x", YAxisField: "y", Aggregation: AggAverage})
	assertValues(t, data.Datasets[0].Values, 1.667)
}

func TestIncompleteConfigFallsBackToPlaceholder(t *testing.T) {
	view := rowsView(dataset.Row{"x": "A", "y": 1.0})

	data := Reshape(view, ChartConfig{TemplateID: TemplateSimpleBar, YAxisField: "y"})
	sample := SampleChartData(TemplateSimpleBar)
	if len(data.Labels) != len(sample.Labels) || data.Labels[0] != sample.Labels[0] {
		t.Error("missing xAxisField must yield the template's placeholder")
	}

	data = Reshape(view, ChartConfig{TemplateID: TemplatePie, ValueField: "y"})
	if data == nil || len(data.Datasets) == 0 {
		t.Fatal("pie without categoryField must yield placeholder, not nil")
	}
}

func TestMultiSeriesTemplateWithoutSeriesFieldFallsBack(t *testing.T) {
	view := rowsView(
		dataset.Row{"x": "A", "y": 1.0},
		dataset.Row{"x": "B", "y": 2.0},
	)

	data := Reshape(view, ChartConfig{TemplateID: TemplateMultiLine, XAxisField: "x", YAxisField: "y", Aggregation: AggSum})
	if len(data.Datasets) != 1 {
		t.Fatalf("no seriesField → single series, got %d datasets", len(data.Datasets))
	}
	if data.Datasets[0].Label != "y" {
		t.Errorf("single-series dataset should carry the y-field name, got %q", data.Datasets[0].Label)
	}
}

func TestDatasetWireFormat(t *testing.T) {
	values := ChartData{
		Labels:   []string{"A"},
		Datasets: []Dataset{{Label: "y", Values: []float64{1, 2}}},
	}
	blob, err := json.Marshal(values)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `"data":[1,2]`) {
		t.Errorf("numeric series must serialize under data: %s", blob)
	}

	points := ChartData{
		Labels:   []string{"Point 1"},
		Datasets: []Dataset{{Label: "y", Points: []ScatterPoint{{X: 1, Y: 2}}}},
	}
	blob, err = json.Marshal(points)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `"data":[{"x":1,"y":2}]`) {
		t.Errorf("paired series must serialize under data: %s", blob)
	}

	var back ChartData
	if err := json.Unmarshal(blob, &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Datasets) != 1 || len(back.Datasets[0].Points) != 1 {
		t.Errorf("paired series did not survive a round trip: %+v", back)
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertLabels(t *testing.T, data *ChartData, want ...string) {
	t.Helper()
	if data == nil {
		t.Fatal("chart data is nil")
	}
	if len(data.Labels) != len(want) {
		t.Fatalf("labels = %v, want %v", data.Labels, want)
	}
	for i, w := range want {
		if data.Labels[i] != w {
			t.Fatalf("labels = %v, want %v", data.Labels, want)
		}
	}
}

func assertValues(t *testing.T, got []float64, want ...float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}
}

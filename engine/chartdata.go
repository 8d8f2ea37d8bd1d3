package engine

import (
	"encoding/json"
)

// ============================================================================
// CHARTDATA SERIALIZATION
// ============================================================================
// The renderer reads datasets[].data as either number[] or {x,y}[] depending
// on the chart shape. One wire key, two payload forms.
// ============================================================================

type datasetWire struct {
	Label string `json:"label"`
	Data  any    `json:"data"`
}

// MarshalJSON emits Values or Points under the single "data" key.
func (d Dataset) MarshalJSON() ([]byte, error) {
	w := datasetWire{Label: d.Label}
	if d.Points != nil {
		w.Data = d.Points
	} else {
		values := d.Values
		if values == nil {
			values = []float64{}
		}
		w.Data = values
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the "data" key back into Values or Points.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var w struct {
		Label string          `json:"label"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	d.Label = w.Label
	d.Values = nil
	d.Points = nil
	if len(w.Data) == 0 {
		return nil
	}

	var points []ScatterPoint
	if err := json.Unmarshal(w.Data, &points); err == nil && len(points) > 0 {
		// Plain numbers also decode into an empty point slice; only accept
		// the paired form when the elements were actual objects.
		var probe []json.RawMessage
		if err := json.Unmarshal(w.Data, &probe); err == nil && len(probe) > 0 && probe[0][0] == '{' {
			d.Points = points
			return nil
		}
	}

	var values []float64
	if err := json.Unmarshal(w.Data, &values); err != nil {
		return err
	}
	d.Values = values
	return nil
}

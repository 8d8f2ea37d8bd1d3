package analysis

import (
	"encoding/base64"
	"encoding/json"
	"sort"

	"github.com/facet-org/facet/engine"
)

// ============================================================================
// FILTER FINGERPRINT — Canonical key for a chart's effective filter state
// ============================================================================
// Two semantically identical filter states MUST produce the same key, no
// matter what order the user clicked values in. Trivial filters (empty
// selection, select-all, wrong table) are excluded so their fingerprints
// collapse onto the unfiltered one.
// ============================================================================

type canonicalSlicer struct {
	ID     string   `json:"id"`
	Column string   `json:"column"`
	Values []string `json:"values"`
}

type canonicalState struct {
	TableID    string            `json:"tableId"`
	DateRanges []string          `json:"dateRanges"`
	Slicers    []canonicalSlicer `json:"slicers"`
}

// Fingerprint encodes the effective filter state of a chart into a stable
// opaque key. tableID is the chart's resolved source table id; slicers whose
// tableId differs never contribute, matching filter isolation at evaluation
// time.
func Fingerprint(chart *engine.Chart, tableID string, activeRangeIDs []string, allSlicers []*engine.Slicer) string {
	state := canonicalState{
		TableID:    tableID,
		DateRanges: sortedCopy(activeRangeIDs),
		Slicers:    []canonicalSlicer{},
	}
	if state.DateRanges == nil {
		state.DateRanges = []string{}
	}

	byID := make(map[string]*engine.Slicer, len(allSlicers))
	for _, s := range allSlicers {
		byID[s.ID] = s
	}

	for _, id := range chart.Config.AppliedSlicers {
		s, ok := byID[id]
		if !ok {
			continue
		}
		if s.TableID != tableID {
			continue
		}
		// A slicer with nothing selected, or with every available value
		// selected, is filter-equivalent to no slicer at all.
		if !s.HasSelection() || s.SelectsAll() {
			continue
		}
		state.Slicers = append(state.Slicers, canonicalSlicer{
			ID:     s.ID,
			Column: s.ColumnName,
			Values: sortedCopy(s.SelectedValues),
		})
	}

	sort.Slice(state.Slicers, func(i, j int) bool {
		return state.Slicers[i].ID < state.Slicers[j].ID
	})

	// Struct field order is fixed, slices are sorted: json.Marshal is
	// deterministic here.
	blob, err := json.Marshal(state)
	if err != nil {
		return "invalid"
	}
	return base64.RawURLEncoding.EncodeToString(blob)
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/facet-org/facet/analysis"
	"github.com/facet-org/facet/store"
)

// ============================================================================
// PERSISTENCE — Project snapshot + analysis cache through the blob store
// ============================================================================
// Two blobs per project: the structural snapshot and the analysis cache.
// Saves serialize a full snapshot and replace the blob wholesale, so a
// concurrent edit from an earlier load can never be partially overwritten.
// ============================================================================

const (
	projectKey  = "project"
	analysisKey = "analysis"
)

// Save writes the project snapshot and the analysis cache.
func (p *Project) Save(st store.Store) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize project: %w", err)
	}
	if err := st.Put(projectKey, blob); err != nil {
		return fmt.Errorf("failed to persist project: %w", err)
	}
	return p.Analyses.Save(st, analysisKey)
}

// Load reads a project from the store. A missing project blob yields an
// empty project named name; the analysis cache degrades independently.
func Load(st store.Store, name string) (*Project, error) {
	p := New(name)

	blob, err := st.Get(projectKey)
	if err == nil {
		if uerr := json.Unmarshal(blob, p); uerr != nil {
			return nil, fmt.Errorf("malformed project blob: %w", uerr)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	p.Analyses = analysis.Load(st, analysisKey)
	return p, nil
}

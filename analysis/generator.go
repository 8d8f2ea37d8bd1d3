package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/facet-org/facet/engine"
)

// ============================================================================
// GENERATOR — Single in-flight analysis per (chartId, fingerprint)
// ============================================================================
// Generation is the one long-running asynchronous operation in the system.
// A second request for a key already in flight is a caller error and is
// rejected; requests for different fingerprints of the same chart proceed
// independently. There is no cancellation: a request's eventual write
// targets the fingerprint it was started for, so a stale completion can
// never corrupt a different fingerprint's entry.
// ============================================================================

// ErrGenerationInFlight is returned when a (chart, fingerprint) pair already
// has a generation request running.
var ErrGenerationInFlight = errors.New("analysis generation already in flight for this filter state")

// Client produces an analysis blob for a chart. Implementations: Gemini.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// Request carries everything the client may describe: the chart's config
// and the pipeline's computed output.
type Request struct {
	Chart *engine.Chart
	Data  *engine.ChartData
}

// Generator tracks in-flight requests and writes results into the cache.
type Generator struct {
	mu       sync.Mutex
	inflight map[string]bool // chartID+"\x00"+fingerprint
	cache    *Cache
	client   Client
}

// NewGenerator creates a Generator writing into cache via client.
func NewGenerator(cache *Cache, client Client) *Generator {
	return &Generator{
		inflight: make(map[string]bool),
		cache:    cache,
		client:   client,
	}
}

// Generate runs one generation synchronously under the in-flight guard.
// On success the entry holds the fresh content; on failure the error is
// recorded and any stale content from a previous generation is preserved.
func (g *Generator) Generate(ctx context.Context, chartID, fingerprint string, req Request) (Entry, error) {
	if err := g.begin(chartID, fingerprint); err != nil {
		return Entry{}, err
	}
	defer g.end(chartID, fingerprint)

	content, err := g.client.Analyze(ctx, req)
	entry := g.complete(chartID, fingerprint, content, err)
	if err != nil {
		return entry, fmt.Errorf("analysis generation failed: %w", err)
	}
	return entry, nil
}

// Start launches a fire-and-forget generation. The guard is taken before
// returning, so a duplicate Start for the same key fails immediately.
func (g *Generator) Start(ctx context.Context, chartID, fingerprint string, req Request) error {
	if err := g.begin(chartID, fingerprint); err != nil {
		return err
	}
	go func() {
		defer g.end(chartID, fingerprint)
		content, err := g.client.Analyze(ctx, req)
		g.complete(chartID, fingerprint, content, err)
	}()
	return nil
}

// begin takes the in-flight guard and marks the entry as generating,
// preserving prior content for display while the request runs.
func (g *Generator) begin(chartID, fingerprint string) error {
	key := chartID + "\x00" + fingerprint
	g.mu.Lock()
	if g.inflight[key] {
		g.mu.Unlock()
		return ErrGenerationInFlight
	}
	g.inflight[key] = true
	g.mu.Unlock()

	prior, _ := g.cache.Get(chartID, fingerprint)
	prior.IsGenerating = true
	prior.Error = ""
	g.cache.Put(chartID, fingerprint, prior)
	return nil
}

func (g *Generator) end(chartID, fingerprint string) {
	g.mu.Lock()
	delete(g.inflight, chartID+"\x00"+fingerprint)
	g.mu.Unlock()
}

// complete writes the outcome to the fingerprint the request was started
// for. Failures keep stale content rather than clearing it.
func (g *Generator) complete(chartID, fingerprint, content string, err error) Entry {
	entry, _ := g.cache.Get(chartID, fingerprint)
	entry.IsGenerating = false
	if err != nil {
		entry.Error = err.Error()
		log.Printf("⚠️ facet: analysis for chart %s failed: %v", chartID, err)
	} else {
		now := time.Now()
		entry.Content = content
		entry.Error = ""
		entry.GeneratedAt = &now
	}
	g.cache.Put(chartID, fingerprint, entry)
	return entry
}

package analysis

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/facet-org/facet/store"
)

// ============================================================================
// ANALYSIS CACHE — chartId → fingerprint → entry
// ============================================================================
// Entries are retained for every filter combination ever analyzed; switching
// filters away and back reuses the prior entry without regeneration. The
// only pruning is DropChart when a chart is deleted. Persistence goes
// through the external blob store, one JSON blob per project, with
// migrate-on-read for the older un-nested shape.
// ============================================================================

// LegacyFingerprint is the sentinel fingerprint that entries from the old
// un-nested blob shape are migrated under.
const LegacyFingerprint = "legacy"

// Entry is one cached analysis blob. IsGenerating is transient state and is
// never persisted.
type Entry struct {
	Content      string     `json:"content"`
	IsGenerating bool       `json:"isGenerating"`
	Error        string     `json:"error,omitempty"`
	GeneratedAt  *time.Time `json:"generatedAt,omitempty"`
}

// Cache is the two-level analysis store.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]map[string]Entry // chartID → fingerprint → entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]map[string]Entry)}
}

// Get returns the entry for an exact (chart, fingerprint) pair.
func (c *Cache) Get(chartID, fingerprint string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[chartID][fingerprint]
	return e, ok
}

// Put stores an entry, replacing any previous one for the same pair.
func (c *Cache) Put(chartID, fingerprint string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[chartID] == nil {
		c.entries[chartID] = make(map[string]Entry)
	}
	c.entries[chartID][fingerprint] = e
}

// HasAnyEntry reports whether a chart has ever been analyzed under ANY
// filter state. Distinguishes "never analyzed" from "analyzed under other
// filters — stale for the current view".
func (c *Cache) HasAnyEntry(chartID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[chartID]) > 0
}

// DropChart removes a chart's entire fingerprint sub-map.
func (c *Cache) DropChart(chartID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, chartID)
}

// ============================================================================
// PERSISTENCE — load/migrate-on-read, persist-on-write
// ============================================================================

// persistEntry is the on-disk entry shape: no isGenerating.
type persistEntry struct {
	Content     string     `json:"content"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Load reads the cache blob from the store under key. A missing key or a
// malformed blob degrades to an empty cache — project load never aborts on
// cache trouble. Chart entries in the older single-object shape are nested
// under the legacy sentinel fingerprint rather than discarded.
func Load(st store.Store, key string) *Cache {
	c := NewCache()

	blob, err := st.Get(key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("⚠️ facet: failed to load analysis cache: %v — starting empty", err)
		}
		return c
	}

	var rawCharts map[string]json.RawMessage
	if err := json.Unmarshal(blob, &rawCharts); err != nil {
		log.Printf("⚠️ facet: malformed analysis cache blob: %v — starting empty", err)
		return c
	}

	for chartID, raw := range rawCharts {
		var nested map[string]persistEntry
		if err := json.Unmarshal(raw, &nested); err == nil && !looksLikeSingleEntry(raw) {
			for fp, pe := range nested {
				c.entries[chartID] = ensure(c.entries[chartID])
				c.entries[chartID][fp] = pe.toEntry()
			}
			continue
		}

		// Legacy shape: the chart id maps straight to one analysis object.
		var single persistEntry
		if err := json.Unmarshal(raw, &single); err != nil {
			log.Printf("⚠️ facet: skipping unreadable cache entry for chart %s: %v", chartID, err)
			continue
		}
		c.entries[chartID] = ensure(c.entries[chartID])
		c.entries[chartID][LegacyFingerprint] = single.toEntry()
	}

	return c
}

// Save writes the cache as one JSON blob, omitting entries whose content is
// empty or whitespace. The blob is rebuilt wholesale on every save
// (replace, not mutate).
func (c *Cache) Save(st store.Store, key string) error {
	c.mu.RLock()
	out := make(map[string]map[string]persistEntry)
	for chartID, fingerprints := range c.entries {
		for fp, e := range fingerprints {
			if strings.TrimSpace(e.Content) == "" {
				continue
			}
			if out[chartID] == nil {
				out[chartID] = make(map[string]persistEntry)
			}
			out[chartID][fp] = persistEntry{
				Content:     e.Content,
				GeneratedAt: e.GeneratedAt,
				Error:       e.Error,
			}
		}
	}
	c.mu.RUnlock()

	blob, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return st.Put(key, blob)
}

// looksLikeSingleEntry detects the legacy shape: an object whose "content"
// member is a string. In the nested shape every member is itself an object.
func looksLikeSingleEntry(raw json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	content, ok := probe["content"]
	return ok && len(content) > 0 && content[0] == '"'
}

func (pe persistEntry) toEntry() Entry {
	return Entry{
		Content:     pe.Content,
		GeneratedAt: pe.GeneratedAt,
		Error:       pe.Error,
	}
}

func ensure(m map[string]Entry) map[string]Entry {
	if m == nil {
		return make(map[string]Entry)
	}
	return m
}

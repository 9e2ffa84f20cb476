package resultcache

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"tagscout/internal/logging"
	"tagscout/internal/track"
)

// Cache provides thread-safe access to scored candidates per file per source.
type Cache struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]map[track.Source][]track.ScoredCandidate
}

// New creates an empty cache.
func New(logger *slog.Logger) *Cache {
	return &Cache{
		logger:  logging.NewComponentLogger(logger, "resultcache"),
		entries: make(map[string]map[track.Source][]track.ScoredCandidate),
	}
}

// Results returns every cached candidate for the file across all sources,
// best score first. Unknown paths yield an empty slice, never an error.
func (c *Cache) Results(path string) []track.ScoredCandidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources, ok := c.entries[path]
	if !ok {
		return nil
	}
	var out []track.ScoredCandidate
	for _, src := range track.Sources() {
		out = append(out, sources[src]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// ResultsBySource returns the cached candidates for one (file, source) bucket.
func (c *Cache) ResultsBySource(path string, source track.Source) []track.ScoredCandidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.entries[path][source]
	out := make([]track.ScoredCandidate, len(bucket))
	copy(out, bucket)
	return out
}

// Store atomically replaces the candidates cached for the file under the
// given source. Other sources' entries for the same file are retained.
// Candidates scored against a different file are rejected outright.
func (c *Cache) Store(path string, source track.Source, candidates []track.ScoredCandidate) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	kept := make([]track.ScoredCandidate, 0, len(candidates))
	for _, sc := range candidates {
		if sc.TrackPath != path {
			c.logger.Warn("dropping candidate scored against another file",
				logging.String("path", path),
				logging.String("candidate_path", sc.TrackPath))
			continue
		}
		kept = append(kept, sc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sources, ok := c.entries[path]
	if !ok {
		sources = make(map[track.Source][]track.ScoredCandidate)
		c.entries[path] = sources
	}
	sources[source] = kept

	c.logger.Debug("stored candidates",
		logging.String("path", path),
		logging.String("source", string(source)),
		logging.Int("count", len(kept)))
}

// ClearFile removes every cached result for the file.
func (c *Cache) ClearFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// ClearAll empties the cache.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[track.Source][]track.ScoredCandidate)
}

// Paths returns every file path with at least one cached result, sorted.
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.entries))
	for path := range c.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClearSource removes every cached entry produced by the given source while
// leaving other sources' results intact. Holding the write lock for the full
// scan keeps it mutually exclusive with concurrent stores, so a fresh write
// is never lost mid-scan.
func (c *Cache) ClearSource(source track.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, sources := range c.entries {
		delete(sources, source)
		if len(sources) == 0 {
			delete(c.entries, path)
		}
	}

	c.logger.Debug("cleared source results", logging.String("source", string(source)))
}

// Best returns the highest-scoring candidate cached for the file across all
// sources, or false when the file has no results.
func (c *Cache) Best(path string) (track.ScoredCandidate, bool) {
	results := c.Results(path)
	if len(results) == 0 {
		return track.ScoredCandidate{}, false
	}
	return results[0], true
}

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"tagscout/internal/events"
	"tagscout/internal/logging"
	"tagscout/internal/resultcache"
	"tagscout/internal/tagdiff"
	"tagscout/internal/track"
)

// ErrLocked means another process already holds the session lock.
var ErrLocked = errors.New("another tagscout instance holds the session lock")

// ErrNotLoaded means the requested path is not part of the working set.
var ErrNotLoaded = errors.New("file is not loaded in this session")

// Session owns the mutable state of one run.
type Session struct {
	logger *slog.Logger
	cache  *resultcache.Cache
	bus    *events.Bus

	lockPath string
	lock     *flock.Flock

	mu      sync.RWMutex
	tracks  map[string]*track.LocalTrack
	engines map[string]*tagdiff.Engine
}

// New creates an empty session. cacheDir is where the lock file lives; an
// empty cacheDir skips locking entirely (tests, read-only commands).
func New(logger *slog.Logger, cacheDir string) (*Session, error) {
	s := &Session{
		logger:  logging.NewComponentLogger(logger, "session"),
		cache:   resultcache.New(logger),
		bus:     events.NewBus(),
		tracks:  make(map[string]*track.LocalTrack),
		engines: make(map[string]*tagdiff.Engine),
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
		s.lockPath = filepath.Join(cacheDir, "tagscout.lock")
		s.lock = flock.New(s.lockPath)
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
	}

	return s, nil
}

// Close releases the session lock. Safe to call on a lock-free session.
func (s *Session) Close() error {
	if s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release session lock: %w", err)
	}
	return nil
}

// Cache exposes the session's result cache.
func (s *Session) Cache() *resultcache.Cache {
	return s.cache
}

// Bus exposes the session's event bus.
func (s *Session) Bus() *events.Bus {
	return s.bus
}

// SetWorkingSet replaces the loaded tracks. Each track gets a fresh diff
// engine; results cached for files no longer present are dropped.
func (s *Session) SetWorkingSet(tracks []track.LocalTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*track.LocalTrack, len(tracks))
	engines := make(map[string]*tagdiff.Engine, len(tracks))
	for i := range tracks {
		t := tracks[i]
		next[t.Path] = &t
		engines[t.Path] = tagdiff.New(s.logger, next[t.Path])
	}

	for path := range s.tracks {
		if _, kept := next[path]; !kept {
			s.cache.ClearFile(path)
		}
	}

	s.tracks = next
	s.engines = engines
	s.logger.Info("working set replaced", logging.Int("tracks", len(tracks)))
}

// Tracks returns the working set sorted by album then track number.
func (s *Session) Tracks() []track.LocalTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.LocalTrack, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Album != out[j].Album {
			return out[i].Album < out[j].Album
		}
		if out[i].TrackNumber != out[j].TrackNumber {
			return out[i].TrackNumber < out[j].TrackNumber
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Track returns the live working copy for a loaded path.
func (s *Session) Track(path string) (*track.LocalTrack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tracks[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, path)
	}
	return t, nil
}

// Engine returns the diff engine owning the file's comparison state.
func (s *Session) Engine(path string) (*tagdiff.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	engine, ok := s.engines[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, path)
	}
	return engine, nil
}

// RemoveFile drops one file from the working set along with its cached
// results and comparison state.
func (s *Session) RemoveFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tracks, path)
	delete(s.engines, path)
	s.cache.ClearFile(path)
}

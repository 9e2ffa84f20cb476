package querycache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tagscout/internal/track"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_responses (
    source     TEXT NOT NULL,
    query      TEXT NOT NULL,
    payload    TEXT NOT NULL,
    fetched_at TEXT NOT NULL,
    PRIMARY KEY (source, query)
);
`

// Store caches source responses on disk.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open initializes or connects to the cache database inside dir.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		return nil, errors.New("query cache ttl must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "querycache.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	store := &Store{db: db, ttl: ttl, now: time.Now}
	if err := store.Prune(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached candidates for a (source, query) pair. The second
// return reports whether a live entry existed; expired entries are removed
// and report false.
func (s *Store) Get(ctx context.Context, source track.Source, query string) ([]track.CandidateRelease, bool, error) {
	if s == nil {
		return nil, false, nil
	}

	var payload, fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM query_responses WHERE source = ? AND query = ?`,
		string(source), query,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache read: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil || s.now().Sub(fetched) > s.ttl {
		_, _ = s.db.ExecContext(ctx,
			`DELETE FROM query_responses WHERE source = ? AND query = ?`,
			string(source), query)
		return nil, false, nil
	}

	var candidates []track.CandidateRelease
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cached payload: %w", err)
	}
	return candidates, true, nil
}

// Put stores (or replaces) the candidates for a (source, query) pair.
func (s *Store) Put(ctx context.Context, source track.Source, query string, candidates []track.CandidateRelease) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query_responses (source, query, payload, fetched_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (source, query) DO UPDATE SET
             payload = excluded.payload,
             fetched_at = excluded.fetched_at`,
		string(source), query, string(payload), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("query cache write: %w", err)
	}
	return nil
}

// Prune deletes every expired entry.
func (s *Store) Prune(ctx context.Context) error {
	if s == nil {
		return nil
	}
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM query_responses WHERE fetched_at < ?`, cutoff); err != nil {
		return fmt.Errorf("query cache prune: %w", err)
	}
	return nil
}

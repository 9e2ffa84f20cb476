package sources

import (
	"context"
	"errors"

	"tagscout/internal/track"
)

var (
	// ErrUnavailable marks transport-level failures reaching a source.
	ErrUnavailable = errors.New("source unavailable")
	// ErrParse marks a response the client could not interpret. Callers
	// treat it as an empty result for that query.
	ErrParse = errors.New("malformed source response")
)

// Fetcher is a text-search lookup source.
type Fetcher interface {
	// Source identifies which lookup this fetcher represents.
	Source() track.Source
	// Search returns candidate releases for a free-text query. An empty
	// slice means no matches.
	Search(ctx context.Context, query string) ([]track.CandidateRelease, error)
	// FetchDetails returns richer detail for one release by external id.
	FetchDetails(ctx context.Context, id string) (track.CandidateRelease, error)
}

// Identifier is the acoustic fingerprint lookup source. It takes a
// fingerprint rather than a text query, so it sits outside the Fetcher
// contract.
type Identifier interface {
	Source() track.Source
	// Lookup returns candidate releases matching the fingerprint.
	Lookup(ctx context.Context, fingerprint string, durationSeconds int) ([]track.CandidateRelease, error)
}

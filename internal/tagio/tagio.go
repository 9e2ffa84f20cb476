package tagio

import (
	"context"

	"tagscout/internal/track"
)

// SaveResult reports what a SaveTags call actually wrote.
type SaveResult struct {
	Saved         bool
	CoverArtSaved bool
}

// TagIO loads and persists a file's tag values.
type TagIO interface {
	// LoadTags reads the file's current tags into a LocalTrack.
	LoadTags(ctx context.Context, path string) (track.LocalTrack, error)
	// SaveTags writes the track's working values back to its file,
	// optionally replacing embedded cover art.
	SaveTags(ctx context.Context, t track.LocalTrack, replaceCoverArt bool) (SaveResult, error)
}

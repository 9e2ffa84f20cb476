package track

import "strings"

// Source identifies which external lookup produced a candidate.
type Source string

const (
	// SourceCatalog is the text-search metadata catalog (MusicBrainz).
	SourceCatalog Source = "catalog"
	// SourceMarketplace is the marketplace/discography catalog (Discogs).
	SourceMarketplace Source = "marketplace"
	// SourceFingerprint is the acoustic fingerprint identification service.
	SourceFingerprint Source = "fingerprint"
)

// Sources lists every lookup source in display order.
func Sources() []Source {
	return []Source{SourceCatalog, SourceMarketplace, SourceFingerprint}
}

// ParseSource maps a user-supplied name to a Source.
func ParseSource(name string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "catalog", "musicbrainz", "mb":
		return SourceCatalog, true
	case "marketplace", "discogs":
		return SourceMarketplace, true
	case "fingerprint", "acoustid":
		return SourceFingerprint, true
	}
	return "", false
}

// LocalTrack is one loaded audio file and its current working tag values.
// Identity is the file path. LoadedTrackCount is the number of tracks
// currently loaded in the session, used as a proxy for expected album size
// when scoring candidates.
type LocalTrack struct {
	Path             string
	Artist           string
	Album            string
	Title            string
	TrackNumber      int
	Year             int
	DurationSeconds  int
	LoadedTrackCount int
}

// Snapshot captures the field values drawn from a chosen candidate, ready to
// be diffed against a track's working values.
type Snapshot struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
	Year        int
}

// CandidateRelease is a single release returned by a lookup source.
type CandidateRelease struct {
	Source     Source
	ID         string
	Artist     string
	Title      string
	Date       string
	TrackCount int
	CoverArt   string
}

// Year extracts the four-digit year from the candidate's date, or 0.
func (c CandidateRelease) Year() int {
	digits := 0
	year := 0
	for _, r := range c.Date {
		if r >= '0' && r <= '9' {
			year = year*10 + int(r-'0')
			digits++
			if digits == 4 {
				return year
			}
			continue
		}
		digits = 0
		year = 0
	}
	return 0
}

// Snapshot converts the candidate into diffable field values for the given
// track. The candidate title maps to the album field; the track's own title
// is left untouched unless the candidate carries per-track detail.
func (c CandidateRelease) Snapshot(t LocalTrack) Snapshot {
	snap := Snapshot{
		Artist:      c.Artist,
		Album:       c.Title,
		Title:       t.Title,
		TrackNumber: t.TrackNumber,
		Year:        c.Year(),
	}
	return snap
}

// ScoredCandidate is a candidate plus its match score against one local file.
// Immutable once created.
type ScoredCandidate struct {
	Candidate CandidateRelease
	TrackPath string
	Score     float64
	Label     string
}

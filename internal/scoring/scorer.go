package scoring

import (
	"sort"

	"tagscout/internal/textutil"
	"tagscout/internal/track"
)

// Criterion weights. The artist and album comparisons dominate; the title
// fallback keeps missing-album files scorable at all.
const (
	weightArtist     = 0.35
	weightAlbum      = 0.30
	weightTrackCount = 0.20
	weightYear       = 0.10
	weightTitle      = 0.05
)

// AutoApplyThreshold is the minimum score at which a best match may be
// applied to a file without user review.
const AutoApplyThreshold = 0.70

// RawCandidateLimit caps how many raw source results are scored per query.
const RawCandidateLimit = 5

// KeepCandidateLimit caps how many scored candidates are cached per file
// per source.
const KeepCandidateLimit = 3

// Score rates how well a candidate release matches the local file, in [0, 1].
func Score(t track.LocalTrack, c track.CandidateRelease) float64 {
	var numerator, denominator float64

	if t.Artist != "" && c.Artist != "" {
		numerator += weightArtist * textutil.Similarity(t.Artist, c.Artist)
		denominator += weightArtist
	}
	if t.Album != "" && c.Title != "" {
		numerator += weightAlbum * textutil.Similarity(t.Album, c.Title)
		denominator += weightAlbum
	}
	if t.LoadedTrackCount > 0 && c.TrackCount > 0 {
		numerator += trackCountCredit(t.LoadedTrackCount, c.TrackCount)
		denominator += weightTrackCount
	}
	if candidateYear := c.Year(); t.Year > 0 && candidateYear > 0 {
		numerator += yearCredit(t.Year, candidateYear)
		denominator += weightYear
	}
	if t.Title != "" && c.Title != "" {
		numerator += weightTitle * textutil.Similarity(t.Title, c.Title)
		denominator += weightTitle
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func trackCountCredit(loaded, candidate int) float64 {
	diff := loaded - candidate
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return weightTrackCount
	case diff <= 2:
		return weightTrackCount * (1 - float64(diff)/3)
	case diff <= 5:
		return weightTrackCount * 0.3
	default:
		return 0
	}
}

func yearCredit(local, candidate int) float64 {
	diff := local - candidate
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return weightYear
	case diff <= 2:
		return weightYear * (1 - float64(diff)/3)
	default:
		return 0
	}
}

// Rank scores every candidate against the track and returns the keep best,
// highest score first. Ties keep the candidates' original response order
// (stable sort), which preserves the source's own relevance ranking.
func Rank(t track.LocalTrack, candidates []track.CandidateRelease, keep int) []track.ScoredCandidate {
	if len(candidates) > RawCandidateLimit {
		candidates = candidates[:RawCandidateLimit]
	}
	scored := make([]track.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, track.ScoredCandidate{
			Candidate: c,
			TrackPath: t.Path,
			Score:     Score(t, c),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if keep > 0 && len(scored) > keep {
		scored = scored[:keep]
	}
	return scored
}

package scoring

import (
	"math"
	"testing"

	"tagscout/internal/track"
)

func abbeyRoadTrack() track.LocalTrack {
	return track.LocalTrack{
		Path:             "/music/beatles/abbey road/01 come together.flac",
		Artist:           "The Beatles",
		Album:            "Abbey Road",
		Year:             1969,
		LoadedTrackCount: 17,
	}
}

func TestScorePerfectMatch(t *testing.T) {
	file := abbeyRoadTrack()
	candidate := track.CandidateRelease{
		Source:     track.SourceCatalog,
		Artist:     "The Beatles",
		Title:      "Abbey Road",
		Date:       "1969-09-26",
		TrackCount: 17,
	}

	got := Score(file, candidate)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Score(perfect match) = %v, want 1.0", got)
	}
}

func TestScoreFuzzyMatchStrictlyLower(t *testing.T) {
	file := abbeyRoadTrack()
	exact := track.CandidateRelease{
		Artist: "The Beatles", Title: "Abbey Road", Date: "1969-09-26", TrackCount: 17,
	}
	fuzzy := track.CandidateRelease{
		Artist: "Beatles", Title: "Abbey Rd", Date: "1971", TrackCount: 12,
	}

	exactScore := Score(file, exact)
	fuzzyScore := Score(file, fuzzy)
	if fuzzyScore >= exactScore {
		t.Errorf("fuzzy candidate scored %v, want strictly below exact %v", fuzzyScore, exactScore)
	}
	if fuzzyScore <= 0 || fuzzyScore >= 1 {
		t.Errorf("fuzzy candidate scored %v, want within (0,1)", fuzzyScore)
	}
}

func TestScoreEmptyFile(t *testing.T) {
	candidate := track.CandidateRelease{
		Artist: "The Beatles", Title: "Abbey Road", Date: "1969", TrackCount: 17,
	}
	got := Score(track.LocalTrack{}, candidate)
	if got != 0 {
		t.Errorf("Score(empty file) = %v, want 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	file := abbeyRoadTrack()
	candidates := []track.CandidateRelease{
		{},
		{Artist: "Pink Floyd", Title: "The Wall", Date: "1979", TrackCount: 26},
		{Artist: "The Beatles"},
		{Title: "Abbey Road"},
		{Date: "not-a-date"},
	}
	for _, c := range candidates {
		got := Score(file, c)
		if got < 0 || got > 1 {
			t.Errorf("Score(%+v) = %v, want within [0,1]", c, got)
		}
	}
}

func TestScoreAbsenceDoesNotPenalize(t *testing.T) {
	file := abbeyRoadTrack()
	// Same artist and album quality; one candidate simply has no date.
	withYear := track.CandidateRelease{Artist: "The Beatles", Title: "Abbey Road", Date: "1969", TrackCount: 17}
	noYear := track.CandidateRelease{Artist: "The Beatles", Title: "Abbey Road", TrackCount: 17}

	if got := Score(file, noYear); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Score(no year) = %v, want 1.0 (year excluded from denominator)", got)
	}
	if got := Score(file, withYear); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Score(with year) = %v, want 1.0", got)
	}
}

func TestTrackCountCredit(t *testing.T) {
	file := track.LocalTrack{Artist: "x", LoadedTrackCount: 10}

	scoreAtDiff := func(diff int) float64 {
		c := track.CandidateRelease{Artist: "x", TrackCount: 10 + diff}
		return Score(file, c)
	}

	exact := scoreAtDiff(0)
	one := scoreAtDiff(1)
	three := scoreAtDiff(3)
	seven := scoreAtDiff(7)

	if exact <= one {
		t.Errorf("exact track count %v not above diff-1 %v", exact, one)
	}
	if three >= one {
		t.Errorf("track-count diff 3 scored %v, want strictly below diff 1 %v", three, one)
	}
	if seven >= three {
		t.Errorf("track-count diff 7 scored %v, want below diff 3 %v", seven, three)
	}
}

func TestRankOrdersAndTruncates(t *testing.T) {
	file := abbeyRoadTrack()
	candidates := []track.CandidateRelease{
		{Artist: "Somebody Else", Title: "Unrelated", Date: "1990", TrackCount: 8},
		{Artist: "The Beatles", Title: "Abbey Road", Date: "1969", TrackCount: 17},
		{Artist: "Beatles", Title: "Abbey Rd", Date: "1971", TrackCount: 12},
		{Artist: "The Beatles", Title: "Let It Be", Date: "1970", TrackCount: 12},
		{Artist: "The Beatles", Title: "Abbey Road", Date: "1969", TrackCount: 16},
		{Artist: "Overflow", Title: "Ignored By Raw Limit", Date: "2001", TrackCount: 3},
	}

	ranked := Rank(file, candidates, KeepCandidateLimit)
	if len(ranked) != KeepCandidateLimit {
		t.Fatalf("Rank returned %d candidates, want %d", len(ranked), KeepCandidateLimit)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("Rank not sorted: index %d score %v above %v", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
	if ranked[0].Candidate.Title != "Abbey Road" || ranked[0].Candidate.TrackCount != 17 {
		t.Errorf("best candidate = %+v, want the exact Abbey Road release", ranked[0].Candidate)
	}
	for _, sc := range ranked {
		if sc.TrackPath != file.Path {
			t.Errorf("scored candidate carries path %q, want %q", sc.TrackPath, file.Path)
		}
	}
}

func TestCandidateYearParsing(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1969-09-26", 1969},
		{"1971", 1971},
		{"", 0},
		{"unknown", 0},
		{"26-09-1969", 1969},
	}
	for _, tt := range tests {
		c := track.CandidateRelease{Date: tt.date}
		if got := c.Year(); got != tt.want {
			t.Errorf("Year(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

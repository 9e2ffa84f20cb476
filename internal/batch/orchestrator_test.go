package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"tagscout/internal/events"
	"tagscout/internal/fingerprint"
	"tagscout/internal/logging"
	"tagscout/internal/querycache"
	"tagscout/internal/ratelimit"
	"tagscout/internal/resultcache"
	"tagscout/internal/sources"
	"tagscout/internal/tagdiff"
	"tagscout/internal/track"
)

type fakeFetcher struct {
	source  track.Source
	results map[string][]track.CandidateRelease
	errs    map[string]error
	queries []string
}

func (f *fakeFetcher) Source() track.Source { return f.source }

func (f *fakeFetcher) Search(_ context.Context, query string) ([]track.CandidateRelease, error) {
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeFetcher) FetchDetails(_ context.Context, id string) (track.CandidateRelease, error) {
	return track.CandidateRelease{}, errors.New("not implemented")
}

type fakeExtractor struct {
	results map[string]fingerprint.Result
	errs    map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (fingerprint.Result, error) {
	if err := f.errs[path]; err != nil {
		return fingerprint.Result{}, err
	}
	return f.results[path], nil
}

type fakeIdentifier struct {
	results map[string][]track.CandidateRelease
	err     error
	lookups int
}

func (f *fakeIdentifier) Source() track.Source { return track.SourceFingerprint }

func (f *fakeIdentifier) Lookup(_ context.Context, fp string, _ int) ([]track.CandidateRelease, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.results[fp], nil
}

func newTestOrchestrator(t *testing.T, opts Options) (*Orchestrator, *resultcache.Cache) {
	t.Helper()
	if opts.Cache == nil {
		opts.Cache = resultcache.New(logging.NewNop())
	}
	o, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, opts.Cache
}

func TestQuerySourceGroupsAlbums(t *testing.T) {
	tracks := []track.LocalTrack{
		{Path: "/m/01.flac", Artist: "The Beatles", Album: "Abbey Road", LoadedTrackCount: 2},
		{Path: "/m/02.flac", Artist: "the beatles", Album: "abbey road", LoadedTrackCount: 2},
		{Path: "/m/03.flac", Artist: "Pink Floyd", Album: "Animals", LoadedTrackCount: 1},
	}
	fetcher := &fakeFetcher{
		source: track.SourceCatalog,
		results: map[string][]track.CandidateRelease{
			"The Beatles Abbey Road": {
				{Source: track.SourceCatalog, ID: "r1", Artist: "The Beatles", Title: "Abbey Road", Date: "1969"},
			},
			"Pink Floyd Animals": {
				{Source: track.SourceCatalog, ID: "r2", Artist: "Pink Floyd", Title: "Animals", Date: "1977"},
			},
		},
	}

	o, cache := newTestOrchestrator(t, Options{})
	summary, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource: %v", err)
	}

	if len(fetcher.queries) != 2 {
		t.Errorf("fetcher saw %d queries, want 2 (one per album group): %v", len(fetcher.queries), fetcher.queries)
	}
	if summary.Groups != 2 || summary.Queried != 2 || summary.Succeeded != 3 {
		t.Errorf("summary = %+v, want 2 groups, 2 queried, 3 succeeded", summary)
	}

	// Both group members receive the shared results under their own path.
	for _, path := range []string{"/m/01.flac", "/m/02.flac"} {
		got := cache.ResultsBySource(path, track.SourceCatalog)
		if len(got) != 1 {
			t.Fatalf("cache for %s has %d results, want 1", path, len(got))
		}
		if got[0].TrackPath != path {
			t.Errorf("TrackPath = %q, want %q", got[0].TrackPath, path)
		}
		if got[0].Candidate.ID != "r1" {
			t.Errorf("candidate = %q, want r1", got[0].Candidate.ID)
		}
		if got[0].Label == "" {
			t.Error("candidate label is empty")
		}
	}
}

func TestQuerySourceSkipsEmptyGroups(t *testing.T) {
	tracks := []track.LocalTrack{
		{Path: "/m/untagged.flac"},
		{Path: "/m/tagged.flac", Artist: "Nirvana", Album: "Nevermind"},
	}
	fetcher := &fakeFetcher{source: track.SourceCatalog}

	o, _ := newTestOrchestrator(t, Options{})
	summary, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource: %v", err)
	}

	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if len(fetcher.queries) != 1 {
		t.Errorf("fetcher saw %d queries, want 1", len(fetcher.queries))
	}
}

func TestQuerySourceIsolatesFailures(t *testing.T) {
	tracks := []track.LocalTrack{
		{Path: "/m/a.flac", Artist: "A", Album: "First"},
		{Path: "/m/b.flac", Artist: "B", Album: "Second"},
	}
	fetcher := &fakeFetcher{
		source: track.SourceCatalog,
		errs:   map[string]error{"A First": sources.ErrUnavailable},
		results: map[string][]track.CandidateRelease{
			"B Second": {{Source: track.SourceCatalog, ID: "ok", Artist: "B", Title: "Second"}},
		},
	}

	o, cache := newTestOrchestrator(t, Options{})
	summary, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource: %v", err)
	}

	if summary.Failed != 1 || summary.Succeeded != 1 {
		t.Errorf("summary = %+v, want 1 failed and 1 succeeded", summary)
	}
	if got := cache.ResultsBySource("/m/b.flac", track.SourceCatalog); len(got) != 1 {
		t.Errorf("healthy group results = %d, want 1", len(got))
	}
}

func TestQuerySourceTreatsParseErrorAsEmpty(t *testing.T) {
	tracks := []track.LocalTrack{{Path: "/m/a.flac", Artist: "A", Album: "First"}}
	fetcher := &fakeFetcher{
		source: track.SourceCatalog,
		errs:   map[string]error{"A First": sources.ErrParse},
	}

	o, cache := newTestOrchestrator(t, Options{})
	summary, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource: %v", err)
	}

	if summary.Failed != 0 || summary.Succeeded != 1 {
		t.Errorf("summary = %+v, want a success with zero candidates", summary)
	}
	if got := cache.ResultsBySource("/m/a.flac", track.SourceCatalog); len(got) != 0 {
		t.Errorf("results = %d, want 0", len(got))
	}
}

func TestQuerySourceStopsOnCancel(t *testing.T) {
	tracks := []track.LocalTrack{
		{Path: "/m/a.flac", Artist: "A", Album: "First"},
		{Path: "/m/b.flac", Artist: "B", Album: "Second"},
	}
	fetcher := &fakeFetcher{source: track.SourceCatalog}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, _ := newTestOrchestrator(t, Options{})
	_, err := o.QuerySource(ctx, fetcher, ratelimit.New(0), tracks)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("QuerySource err = %v, want context.Canceled", err)
	}
	if len(fetcher.queries) != 0 {
		t.Errorf("fetcher was called %d times after cancellation", len(fetcher.queries))
	}
}

func TestQuerySourceHitsQueryCache(t *testing.T) {
	store, err := querycache.Open(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("querycache.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tracks := []track.LocalTrack{{Path: "/m/a.flac", Artist: "A", Album: "First"}}
	fetcher := &fakeFetcher{
		source: track.SourceCatalog,
		results: map[string][]track.CandidateRelease{
			"A First": {{Source: track.SourceCatalog, ID: "r1", Artist: "A", Title: "First"}},
		},
	}

	o, _ := newTestOrchestrator(t, Options{QueryCache: store})
	first, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource (cold): %v", err)
	}
	second, err := o.QuerySource(context.Background(), fetcher, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("QuerySource (warm): %v", err)
	}

	if first.Queried != 1 || first.CacheHits != 0 {
		t.Errorf("cold run summary = %+v, want one network query", first)
	}
	if second.Queried != 0 || second.CacheHits != 1 {
		t.Errorf("warm run summary = %+v, want one cache hit", second)
	}
	if len(fetcher.queries) != 1 {
		t.Errorf("fetcher saw %d queries across both runs, want 1", len(fetcher.queries))
	}
}

func TestIdentifyFingerprints(t *testing.T) {
	tracks := []track.LocalTrack{
		{Path: "/m/good.flac", Artist: "The Beatles", Album: "Abbey Road"},
		{Path: "/m/broken.flac", Artist: "The Beatles", Album: "Abbey Road"},
	}
	extractor := &fakeExtractor{
		results: map[string]fingerprint.Result{
			"/m/good.flac": {Fingerprint: "AQAA", DurationSeconds: 180},
		},
		errs: map[string]error{
			"/m/broken.flac": fingerprint.ErrToolExecution,
		},
	}
	identifier := &fakeIdentifier{
		results: map[string][]track.CandidateRelease{
			"AQAA": {{Source: track.SourceFingerprint, ID: "mb-1", Artist: "The Beatles", Title: "Abbey Road"}},
		},
	}

	o, cache := newTestOrchestrator(t, Options{})
	summary, err := o.IdentifyFingerprints(context.Background(), extractor, identifier, ratelimit.New(0), tracks)
	if err != nil {
		t.Fatalf("IdentifyFingerprints: %v", err)
	}

	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 succeeded and 1 failed", summary)
	}
	if identifier.lookups != 1 {
		t.Errorf("identifier lookups = %d, want 1 (no lookup for failed extraction)", identifier.lookups)
	}
	got := cache.ResultsBySource("/m/good.flac", track.SourceFingerprint)
	if len(got) != 1 || got[0].Candidate.ID != "mb-1" {
		t.Errorf("cached results = %#v, want the mb-1 candidate", got)
	}
}

func TestSelectBestMatchAboveThreshold(t *testing.T) {
	o, cache := newTestOrchestrator(t, Options{})

	localTrack := &track.LocalTrack{Path: "/m/a.flac", Artist: "The Beatles", Album: "Abby Raod"}
	cache.Store("/m/a.flac", track.SourceCatalog, []track.ScoredCandidate{
		{
			Candidate: track.CandidateRelease{Source: track.SourceCatalog, ID: "r1", Artist: "The Beatles", Title: "Abbey Road", Date: "1969"},
			TrackPath: "/m/a.flac",
			Score:     0.95,
		},
	})

	var published []events.Event
	bus := events.NewBus()
	bus.Subscribe(func(evt events.Event) { published = append(published, evt) })
	o.bus = bus

	engine := tagdiff.New(logging.NewNop(), localTrack)
	best, applied := o.SelectBestMatch("/m/a.flac", engine)
	if !applied {
		t.Fatal("SelectBestMatch did not apply a 0.95 candidate")
	}
	if best.Candidate.ID != "r1" {
		t.Errorf("best candidate = %q, want r1", best.Candidate.ID)
	}
	if len(engine.Items(tagdiff.FilterAll)) == 0 {
		t.Error("engine comparison was not rebuilt")
	}
	if len(published) != 1 || published[0].Type != events.ComparisonUpdated {
		t.Errorf("published events = %#v, want one ComparisonUpdated", published)
	}
}

func TestSelectBestMatchBelowThreshold(t *testing.T) {
	o, cache := newTestOrchestrator(t, Options{})

	localTrack := &track.LocalTrack{Path: "/m/a.flac", Artist: "Someone"}
	cache.Store("/m/a.flac", track.SourceCatalog, []track.ScoredCandidate{
		{
			Candidate: track.CandidateRelease{Source: track.SourceCatalog, ID: "weak"},
			TrackPath: "/m/a.flac",
			Score:     0.40,
		},
	})

	engine := tagdiff.New(logging.NewNop(), localTrack)
	if _, applied := o.SelectBestMatch("/m/a.flac", engine); applied {
		t.Error("SelectBestMatch applied a candidate below the threshold")
	}
	if len(engine.Items(tagdiff.FilterAll)) != 0 {
		t.Error("engine comparison was rebuilt for a weak candidate")
	}
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tagscout/internal/events"
	"tagscout/internal/fingerprint"
	"tagscout/internal/logging"
	"tagscout/internal/querycache"
	"tagscout/internal/ratelimit"
	"tagscout/internal/resultcache"
	"tagscout/internal/scoring"
	"tagscout/internal/sources"
	"tagscout/internal/textutil"
	"tagscout/internal/track"
)

// Summary aggregates the outcome of one batch run.
type Summary struct {
	RunID     string
	Source    track.Source
	Groups    int
	Queried   int
	CacheHits int
	Succeeded int
	Failed    int
	Skipped   int
}

// Orchestrator issues batch queries and routes scored results into the
// result cache.
type Orchestrator struct {
	logger     *slog.Logger
	cache      *resultcache.Cache
	bus        *events.Bus
	queryCache *querycache.Store
	threshold  float64
}

// Options configures orchestrator construction.
type Options struct {
	Logger *slog.Logger
	Cache  *resultcache.Cache
	Bus    *events.Bus
	// QueryCache is optional; when nil every query hits the network.
	QueryCache *querycache.Store
	// AutoApplyThreshold gates SelectBestMatch; zero falls back to the
	// scoring default.
	AutoApplyThreshold float64
}

// New creates an orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Cache == nil {
		return nil, errors.New("result cache is required")
	}
	threshold := opts.AutoApplyThreshold
	if threshold == 0 {
		threshold = scoring.AutoApplyThreshold
	}
	return &Orchestrator{
		logger:     logging.NewComponentLogger(opts.Logger, "batch"),
		cache:      opts.Cache,
		bus:        opts.Bus,
		queryCache: opts.QueryCache,
		threshold:  threshold,
	}, nil
}

// group is one distinct (artist, album) query unit.
type group struct {
	artist  string
	album   string
	rep     track.LocalTrack
	members []track.LocalTrack
}

// QuerySource runs one text-search source across the selected tracks.
// Tracks sharing an (artist, album) pair are queried once; the scored
// candidates are stored for every member of the group. Failures are counted
// and skipped, never fatal; the only early exit is context cancellation.
func (o *Orchestrator) QuerySource(ctx context.Context, fetcher sources.Fetcher, pacer *ratelimit.Pacer, tracks []track.LocalTrack) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Source: fetcher.Source()}
	groups := groupTracks(tracks)
	summary.Groups = len(groups)

	o.logger.Info("batch query started",
		logging.String("run_id", summary.RunID),
		logging.String("source", string(summary.Source)),
		logging.Int("tracks", len(tracks)),
		logging.Int("groups", len(groups)))

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		query := strings.TrimSpace(g.artist + " " + g.album)
		if query == "" {
			summary.Skipped += len(g.members)
			continue
		}

		candidates, fromCache, err := o.fetchCandidates(ctx, fetcher, pacer, query)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			summary.Failed += len(g.members)
			o.logger.Warn("group query failed",
				logging.String("run_id", summary.RunID),
				logging.String("query", query),
				logging.Error(err))
			continue
		}
		if fromCache {
			summary.CacheHits++
		} else {
			summary.Queried++
		}

		o.storeForGroup(g, fetcher.Source(), candidates)
		summary.Succeeded += len(g.members)
	}

	o.publishSummary(summary)
	return summary, nil
}

// IdentifyFingerprints runs the fingerprint source across the selected
// tracks. Unlike text search there is no grouping; every file is
// fingerprinted and looked up individually.
func (o *Orchestrator) IdentifyFingerprints(ctx context.Context, extractor fingerprint.Extractor, identifier sources.Identifier, pacer *ratelimit.Pacer, tracks []track.LocalTrack) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Source: identifier.Source()}
	summary.Groups = len(tracks)

	o.logger.Info("fingerprint identification started",
		logging.String("run_id", summary.RunID),
		logging.Int("tracks", len(tracks)))

	for _, t := range tracks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := pacer.Wait(ctx); err != nil {
			return summary, err
		}
		result, err := extractor.Extract(ctx, t.Path)
		if err != nil {
			summary.Failed++
			o.logger.Warn("fingerprint extraction failed",
				logging.String("run_id", summary.RunID),
				logging.String("path", t.Path),
				logging.Error(err))
			continue
		}

		candidates, err := identifier.Lookup(ctx, result.Fingerprint, result.DurationSeconds)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			if errors.Is(err, sources.ErrParse) {
				candidates = nil
			} else {
				summary.Failed++
				o.logger.Warn("fingerprint lookup failed",
					logging.String("run_id", summary.RunID),
					logging.String("path", t.Path),
					logging.Error(err))
				continue
			}
		}
		summary.Queried++

		scored := scoring.Rank(t, candidates, scoring.KeepCandidateLimit)
		labelCandidates(scored)
		o.cache.Store(t.Path, identifier.Source(), scored)
		o.bus.Publish(events.Event{Type: events.ResultsUpdated, Path: t.Path, Source: identifier.Source()})
		summary.Succeeded++
	}

	o.publishSummary(summary)
	return summary, nil
}

// SelectBestMatch scans the cache for the active file's highest-scoring
// candidate across all sources. At or above the auto-apply threshold the
// comparison is rebuilt from that candidate and the caller is signalled
// (via ComparisonUpdated) to switch focus to the comparison view.
func (o *Orchestrator) SelectBestMatch(path string, engine comparisonEngine) (track.ScoredCandidate, bool) {
	best, ok := o.cache.Best(path)
	if !ok || best.Score < o.threshold {
		return track.ScoredCandidate{}, false
	}

	t := engine.Track()
	description := fmt.Sprintf("auto-applied %s match %q (score %.2f)",
		best.Candidate.Source, best.Candidate.Title, best.Score)
	engine.UpdateComparison(best.Candidate.Snapshot(*t), description)
	o.bus.Publish(events.Event{Type: events.ComparisonUpdated, Path: path, Source: best.Candidate.Source})

	o.logger.Info("best match auto-applied",
		logging.String("path", path),
		logging.String("source", string(best.Candidate.Source)),
		logging.Float64("score", best.Score))
	return best, true
}

// comparisonEngine is the slice of the diff engine the orchestrator needs.
type comparisonEngine interface {
	Track() *track.LocalTrack
	UpdateComparison(snap track.Snapshot, description string)
}

func (o *Orchestrator) fetchCandidates(ctx context.Context, fetcher sources.Fetcher, pacer *ratelimit.Pacer, query string) ([]track.CandidateRelease, bool, error) {
	if o.queryCache != nil {
		cached, ok, err := o.queryCache.Get(ctx, fetcher.Source(), query)
		if err != nil {
			o.logger.Warn("query cache read failed", logging.Error(err))
		} else if ok {
			return cached, true, nil
		}
	}

	if err := pacer.Wait(ctx); err != nil {
		return nil, false, err
	}
	candidates, err := fetcher.Search(ctx, query)
	if err != nil {
		// A malformed response counts as "no matches" for this query.
		if errors.Is(err, sources.ErrParse) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if o.queryCache != nil {
		if err := o.queryCache.Put(ctx, fetcher.Source(), query, candidates); err != nil {
			o.logger.Warn("query cache write failed", logging.Error(err))
		}
	}
	return candidates, false, nil
}

func (o *Orchestrator) storeForGroup(g group, source track.Source, candidates []track.CandidateRelease) {
	ranked := scoring.Rank(g.rep, candidates, scoring.KeepCandidateLimit)
	for _, member := range g.members {
		scored := make([]track.ScoredCandidate, len(ranked))
		copy(scored, ranked)
		for i := range scored {
			scored[i].TrackPath = member.Path
		}
		labelCandidates(scored)
		o.cache.Store(member.Path, source, scored)
		o.bus.Publish(events.Event{Type: events.ResultsUpdated, Path: member.Path, Source: source})
	}
}

func (o *Orchestrator) publishSummary(summary Summary) {
	o.logger.Info("batch completed",
		logging.String("run_id", summary.RunID),
		logging.String("source", string(summary.Source)),
		logging.Int("groups", summary.Groups),
		logging.Int("queried", summary.Queried),
		logging.Int("cache_hits", summary.CacheHits),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped))
	o.bus.Publish(events.Event{
		Type:   events.BatchCompleted,
		Source: summary.Source,
		Detail: fmt.Sprintf("%d succeeded, %d failed", summary.Succeeded, summary.Failed),
	})
}

// groupTracks buckets tracks by normalized (artist, album) and orders the
// groups deterministically. The first track of each group is its scoring
// representative.
func groupTracks(tracks []track.LocalTrack) []group {
	type key struct{ artist, album string }
	index := make(map[key]*group)
	order := make([]key, 0)

	for _, t := range tracks {
		k := key{textutil.Normalize(t.Artist), textutil.Normalize(t.Album)}
		g, ok := index[k]
		if !ok {
			g = &group{artist: t.Artist, album: t.Album, rep: t}
			index[k] = g
			order = append(order, k)
		}
		g.members = append(g.members, t)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].artist != order[j].artist {
			return order[i].artist < order[j].artist
		}
		return order[i].album < order[j].album
	})

	groups := make([]group, 0, len(order))
	for _, k := range order {
		groups = append(groups, *index[k])
	}
	return groups
}

func labelCandidates(scored []track.ScoredCandidate) {
	for i := range scored {
		c := scored[i].Candidate
		scored[i].Label = fmt.Sprintf("%s / %s [%.2f]", c.Artist, c.Title, scored[i].Score)
	}
}

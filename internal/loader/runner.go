package loader

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"tagscout/internal/logging"
	"tagscout/internal/tagio"
	"tagscout/internal/track"
)

// Progress is one throttled update during a load run.
type Progress struct {
	Completed int
	Total     int
	Percent   float64
	Path      string
}

// ProgressFunc receives throttled progress updates. It is called from the
// loading goroutines and must be fast.
type ProgressFunc func(Progress)

// Result is the outcome of one load run. Tracks holds only the files that
// loaded successfully, ordered by album then track number.
type Result struct {
	Tracks []track.LocalTrack
	Loaded int
	Failed int
}

// Options configures a Runner.
type Options struct {
	Logger *slog.Logger
	// MaxWorkers caps pool size; it is further capped at NumCPU. Zero or
	// negative means NumCPU.
	MaxWorkers int
	OnProgress ProgressFunc
}

// Runner loads tags for batches of files concurrently.
type Runner struct {
	logger     *slog.Logger
	reader     tagio.TagIO
	workers    int
	onProgress ProgressFunc

	mu        sync.Mutex
	completed int
	sampler   *logging.ProgressSampler
}

// New creates a runner backed by the given tag reader.
func New(reader tagio.TagIO, opts Options) *Runner {
	workers := opts.MaxWorkers
	if limit := runtime.NumCPU(); workers <= 0 || workers > limit {
		workers = limit
	}
	return &Runner{
		logger:     logging.NewComponentLogger(opts.Logger, "loader"),
		reader:     reader,
		workers:    workers,
		onProgress: opts.OnProgress,
		sampler:    logging.NewProgressSampler(5, 0),
	}
}

// Load reads tags for every path. Individual failures are logged and counted;
// the only error Load itself returns is context cancellation, and then the
// partial result is still valid.
func (r *Runner) Load(ctx context.Context, paths []string) (Result, error) {
	total := len(paths)
	r.logger.Info("load started",
		logging.Int("files", total),
		logging.Int("workers", r.workers))
	r.sampler.Reset()
	r.completed = 0

	loaded := make([]*track.LocalTrack, total)
	failed := make([]bool, total)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r.loadOne(ctx, paths[i], i, total, loaded, failed)
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	result := collect(loaded, failed)
	count := len(result.Tracks)
	for i := range result.Tracks {
		result.Tracks[i].LoadedTrackCount = count
	}

	r.logger.Info("load finished",
		logging.Int("loaded", result.Loaded),
		logging.Int("failed", result.Failed))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) loadOne(ctx context.Context, path string, i, total int, loaded []*track.LocalTrack, failed []bool) {
	t, err := r.reader.LoadTags(ctx, path)
	if err != nil {
		failed[i] = true
		r.logger.Warn("load failed",
			logging.String("path", path),
			logging.Error(err))
	} else {
		loaded[i] = &t
	}
	r.reportProgress(path, total)
}

// reportProgress holds the mutex across the completion counter and the
// sampler so updates from concurrent workers stay ordered.
func (r *Runner) reportProgress(path string, total int) {
	r.mu.Lock()
	r.completed++
	completed := r.completed
	percent := float64(0)
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}
	emit := r.onProgress != nil && r.sampler.ShouldEmit(percent)
	r.mu.Unlock()

	if emit {
		r.onProgress(Progress{
			Completed: completed,
			Total:     total,
			Percent:   percent,
			Path:      path,
		})
	}
}

// collect drops failures and orders the survivors by album, track number,
// then path so repeated runs over the same library produce identical output.
func collect(loaded []*track.LocalTrack, failed []bool) Result {
	var result Result
	for i := range loaded {
		switch {
		case loaded[i] != nil:
			result.Tracks = append(result.Tracks, *loaded[i])
			result.Loaded++
		case failed[i]:
			result.Failed++
		}
	}
	sort.SliceStable(result.Tracks, func(i, j int) bool {
		a, b := result.Tracks[i], result.Tracks[j]
		if a.Album != b.Album {
			return a.Album < b.Album
		}
		if a.TrackNumber != b.TrackNumber {
			return a.TrackNumber < b.TrackNumber
		}
		return a.Path < b.Path
	})
	return result
}

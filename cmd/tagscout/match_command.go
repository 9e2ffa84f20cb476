package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"tagscout/internal/batch"
	"tagscout/internal/track"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "match [path...]",
		Short: "Query external catalogs and rank candidate releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			selected, err := parseSources(sourceFlag)
			if err != nil {
				return err
			}

			paths, err := collectAudioFiles(args, rt.cfg.Paths.LibraryDir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audio files found")
				return nil
			}

			result, err := loadWorkingSet(cmd.Context(), rt, paths)
			if err != nil {
				return err
			}

			summaries, err := querySources(cmd.Context(), rt, selected, result.Tracks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printCandidates(out, rt)
			for _, summary := range summaries {
				fmt.Fprintf(out, "%s: %d group(s), %d queried, %d cache hit(s), %d succeeded, %d failed, %d skipped\n",
					summary.Source, summary.Groups, summary.Queried, summary.CacheHits,
					summary.Succeeded, summary.Failed, summary.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "all", "Sources to query (catalog, marketplace, or all)")
	return cmd
}

// querySources runs the selected sources concurrently; within each source the
// orchestrator paces calls sequentially.
func querySources(ctx context.Context, rt *runtime, selected []track.Source, tracks []track.LocalTrack) ([]batch.Summary, error) {
	summaries := make([]batch.Summary, len(selected))
	errs := make([]error, len(selected))

	var wg sync.WaitGroup
	for i, source := range selected {
		fetcher, pacer, err := rt.fetcherFor(source)
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summaries[i], errs[i] = rt.orch.QuerySource(ctx, fetcher, pacer, tracks)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

// printCandidates renders the cached candidates for every file in the
// working set, best first.
func printCandidates(out io.Writer, rt *runtime) {
	for _, t := range rt.sess.Tracks() {
		results := rt.sess.Cache().Results(t.Path)
		if len(results) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", t.Path)
		rows := make([][]string, 0, len(results))
		for _, sc := range results {
			rows = append(rows, []string{
				string(sc.Candidate.Source),
				sc.Candidate.Artist,
				sc.Candidate.Title,
				sc.Candidate.Date,
				fmt.Sprintf("%.2f", sc.Score),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Source", "Artist", "Release", "Date", "Score"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}
}

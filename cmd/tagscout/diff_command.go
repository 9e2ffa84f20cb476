package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tagscout/internal/tagdiff"
	"tagscout/internal/track"
)

func newDiffCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var changedOnly bool
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "diff [path...]",
		Short: "Show proposed tag changes from the best matching release",
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

			matched, err := reconcile(cmd.Context(), rt, args, selected)
			if err != nil {
				return err
			}

			filter := tagdiff.FilterAll
			if missingOnly {
				filter = tagdiff.FilterMissing
			} else if changedOnly {
				filter = tagdiff.FilterChanged
			}

			out := cmd.OutOrStdout()
			for _, m := range matched {
				printDiff(out, rt, m, filter)
			}
			if len(matched) == 0 {
				fmt.Fprintln(out, "No file reached the auto-apply threshold; run `tagscout match` to inspect candidates")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "all", "Sources to query (catalog, marketplace, or all)")
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "Show only fields that would change")
	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Show only fields that are currently empty")
	return cmd
}

// reconcile loads the files, queries the selected sources, and builds a
// comparison for every file whose best match clears the threshold. It returns
// the matches it applied.
func reconcile(ctx context.Context, rt *runtime, args []string, selected []track.Source) ([]track.ScoredCandidate, error) {
	paths, err := collectAudioFiles(args, rt.cfg.Paths.LibraryDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	result, err := loadWorkingSet(ctx, rt, paths)
	if err != nil {
		return nil, err
	}
	if _, err := querySources(ctx, rt, selected, result.Tracks); err != nil {
		return nil, err
	}

	var matched []track.ScoredCandidate
	for _, t := range rt.sess.Tracks() {
		engine, err := rt.sess.Engine(t.Path)
		if err != nil {
			continue
		}
		if best, ok := rt.orch.SelectBestMatch(t.Path, engine); ok {
			matched = append(matched, best)
		}
	}
	return matched, nil
}

func printDiff(out io.Writer, rt *runtime, match track.ScoredCandidate, filter tagdiff.Filter) {
	engine, err := rt.sess.Engine(match.TrackPath)
	if err != nil {
		return
	}

	fmt.Fprintf(out, "\n%s\n", match.TrackPath)
	fmt.Fprintf(out, "Best match: %s (%s, score %.2f)\n",
		match.Candidate.Title, match.Candidate.Source, match.Score)

	items := engine.Items(filter)
	if len(items) == 0 {
		fmt.Fprintln(out, "No differences")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Field,
			item.Original,
			item.Proposed,
			yesNo(item.Changed),
			item.State.String(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Field", "Current", "Proposed", "Changed", "State"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagscout/internal/tagio"
)

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "accept [path...]",
		Short: "Accept the best match for each file and write the tags",
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

			out := cmd.OutOrStdout()
			if len(matched) == 0 {
				fmt.Fprintln(out, "No file reached the auto-apply threshold; nothing to accept")
				return nil
			}

			writer := tagio.NewPathReader()
			saved := 0
			for _, m := range matched {
				engine, err := rt.sess.Engine(m.TrackPath)
				if err != nil {
					continue
				}
				if err := engine.AcceptAll(); err != nil {
					return fmt.Errorf("accept %s: %w", m.TrackPath, err)
				}
				fmt.Fprintf(out, "\n%s\n%s", m.TrackPath, engine.Summary())

				if dryRun {
					continue
				}
				t, err := rt.sess.Track(m.TrackPath)
				if err != nil {
					continue
				}
				result, err := writer.SaveTags(cmd.Context(), *t, false)
				if err != nil {
					fmt.Fprintf(out, "save failed: %v\n", err)
					continue
				}
				if result.Saved {
					saved++
				}
			}

			if dryRun {
				fmt.Fprintf(out, "\nDry run: %d file(s) would be updated\n", len(matched))
			} else {
				fmt.Fprintf(out, "\nUpdated %d of %d file(s)\n", saved, len(matched))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "all", "Sources to query (catalog, marketplace, or all)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without writing files")
	return cmd
}

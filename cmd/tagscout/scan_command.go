package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path...]",
		Short: "Load audio files and show their current tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

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

			rows := make([][]string, 0, len(result.Tracks))
			for _, t := range result.Tracks {
				year := ""
				if t.Year > 0 {
					year = strconv.Itoa(t.Year)
				}
				rows = append(rows, []string{
					t.Path, t.Artist, t.Album, strconv.Itoa(t.TrackNumber), t.Title, year,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Path", "Artist", "Album", "#", "Title", "Year"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Loaded %d file(s), %d failed\n", result.Loaded, result.Failed)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "identify [path...]",
		Short: "Identify files by acoustic fingerprint",
		Long:  "Runs fpcalc on each file and looks the fingerprint up against the identification service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			extractor, identifier, pacer, err := rt.identifierFor()
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

			summary, err := rt.orch.IdentifyFingerprints(cmd.Context(), extractor, identifier, pacer, result.Tracks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printCandidates(out, rt)
			fmt.Fprintf(out, "%d file(s) identified, %d failed\n", summary.Succeeded, summary.Failed)
			return nil
		},
	}
}

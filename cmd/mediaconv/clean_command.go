package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediaconv/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover staged files from interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result := staging.CleanStale(cfg.Paths.StagingDir, maxAge, ctx.ensureLogger())

			out := cmd.OutOrStdout()
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "could not remove %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Removed) == 0 {
				fmt.Fprintln(out, "Staging area is clean.")
			} else {
				fmt.Fprintf(out, "Removed %d stale staged file(s).\n", len(result.Removed))
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d staged file(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove staged files older than this")
	return cmd
}

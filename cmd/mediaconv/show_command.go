package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaconv/internal/logging"
	"mediaconv/internal/logs"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.LogFilePath(cfg)
			if path == "" {
				return fmt.Errorf("no log directory configured")
			}

			out := cmd.OutOrStdout()
			tail, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}

			if follow {
				return logs.Follow(cmd.Context(), path, out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 20, "Number of trailing log lines to show")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep printing new log lines until interrupted")
	return cmd
}

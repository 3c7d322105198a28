package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags convertFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "mediaconv [flags] [input...]",
		Short: "Convert modern media formats to conventional ones",
		Long: `mediaconv converts a small, fixed set of modern media formats to
conventional ones: WebP, AVIF, and SVG images become PNG; MP3, MP4, and M4A
audio becomes WAV. Outputs are never silently overwritten; an occupied name
gets an " (N)" suffix instead.

With file arguments each file is converted independently; a trailing
argument whose extension is a valid output for the first file is treated as
an explicit output path ("mediaconv photo.webp photo.png"). With --batch, a
directory is scanned (non-recursively) for supported files. With no
arguments, mediaconv prompts for a single input path.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVar(&flags.batchDir, "batch", "", "Scan a directory and convert every supported file in it")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "Explicit output path (single input only)")
	rootCmd.Flags().IntVar(&flags.width, "width", 0, "Output width in pixels for image conversions")
	rootCmd.Flags().IntVar(&flags.height, "height", 0, "Output height in pixels for image conversions")
	rootCmd.Flags().Float64Var(&flags.scale, "scale", 0, "Scale factor applied to the intrinsic size of vector inputs")
	rootCmd.Flags().IntVar(&flags.sampleRate, "sample-rate", 0, "Output sample rate in Hz for audio conversions")
	rootCmd.Flags().IntVar(&flags.channels, "channels", 0, "Output channel count for audio conversions")

	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediaconv/internal/batch"
	"mediaconv/internal/converters"
	"mediaconv/internal/dispatch"
	"mediaconv/internal/history"
	"mediaconv/internal/registry"
	"mediaconv/internal/services"
)

type convertFlags struct {
	batchDir   string
	output     string
	width      int
	height     int
	scale      float64
	sampleRate int
	channels   int
}

func (f convertFlags) options() converters.Options {
	return converters.Options{
		Width:      f.width,
		Height:     f.height,
		Scale:      f.scale,
		SampleRate: f.sampleRate,
		Channels:   f.channels,
	}
}

func runConvert(cmd *cobra.Command, ctx *commandContext, args []string, flags convertFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := ctx.ensureLogger()

	if flags.batchDir != "" && len(args) > 0 {
		return fmt.Errorf("--batch cannot be combined with file arguments")
	}
	if flags.output != "" && flags.batchDir != "" {
		return fmt.Errorf("--output applies to a single input, not --batch")
	}
	if flags.output != "" && len(args) > 1 {
		return fmt.Errorf("--output applies to a single input, got %d", len(args))
	}

	reg, err := registry.New(cfg)
	if err != nil {
		return err
	}
	disp := dispatch.New(reg, cfg.Paths.StagingDir, logger)

	orchOpts := []batch.Option{batch.WithLogger(logger)}
	if cfg.Paths.OutputDir != "" {
		orchOpts = append(orchOpts, batch.WithOutputDir(cfg.Paths.OutputDir))
	}
	if cfg.History.Enabled {
		store, histErr := history.Open(cfg)
		if histErr != nil {
			logger.Warn("history unavailable", slog.String("error", histErr.Error()))
		} else {
			defer store.Close()
			if _, pruneErr := store.Prune(cmd.Context(), cfg.History.RetentionDays); pruneErr != nil {
				logger.Warn("history prune failed", slog.String("error", pruneErr.Error()))
			}
			orchOpts = append(orchOpts, batch.WithHistory(store))
		}
	}
	orch := batch.New(reg, disp, orchOpts...)

	opts := flags.options()

	// Positional output form: "mediaconv in.webp out.png". Output extensions
	// are disjoint from input extensions, so a second argument that forms a
	// registered pair with the first is an output path, not a second input.
	if flags.output == "" && flags.batchDir == "" && len(args) == 2 {
		inExt := registry.NormalizeExt(filepath.Ext(args[0]))
		outExt := registry.NormalizeExt(filepath.Ext(args[1]))
		if !reg.Supports(outExt) {
			if _, ok := reg.Lookup(inExt, outExt); ok {
				flags.output = args[1]
				args = args[:1]
			}
		}
	}

	var result *batch.Result
	switch {
	case flags.batchDir != "":
		result, err = orch.RunDirectory(cmd.Context(), flags.batchDir, opts)
		if err != nil {
			return err
		}
	case len(args) == 0:
		input, promptErr := promptForInput(cmd)
		if promptErr != nil {
			return promptErr
		}
		result = orch.RunSingle(cmd.Context(), input, flags.output, opts)
	case flags.output != "":
		result = orch.RunSingle(cmd.Context(), args[0], flags.output, opts)
	default:
		result = orch.RunFiles(cmd.Context(), args, opts)
	}

	return reportResult(cmd, result)
}

// promptForInput reads a single input path from stdin. Running with no
// arguments is the interactive mode; an empty line is treated as "never mind".
func promptForInput(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Input file: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read input path: %w", err)
		}
		return "", fmt.Errorf("no input path provided")
	}
	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return "", fmt.Errorf("no input path provided")
	}
	return input, nil
}

// reportResult prints one status line per job and a closing summary. The
// returned error is non-nil when any job failed so the process exits non-zero
// even though sibling conversions completed.
func reportResult(cmd *cobra.Command, result *batch.Result) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if result.NothingToDo() {
		fmt.Fprintln(out, "No convertible files found.")
		return nil
	}

	for _, outcome := range result.Outcomes {
		fmt.Fprintln(out, renderOutcomeLine(outcome, colorize))
	}

	if result.Attempted() > 1 {
		fmt.Fprintf(out, "\n%d of %d conversions succeeded (%s)\n",
			result.Succeeded(), result.Attempted(), totalDuration(result))
	}

	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, result.Attempted())
	}
	return nil
}

func renderOutcomeLine(outcome batch.Outcome, colorize bool) string {
	label := filepath.Base(outcome.InputPath)
	if outcome.Err != nil {
		message := fmt.Sprintf("%s: %v", services.Kind(outcome.Err), outcome.Err)
		return renderStatusLine(label, statusError, message, colorize)
	}
	message := outcome.OutputPath
	if outcome.Renamed {
		message += " (renamed to avoid overwrite)"
	}
	return renderStatusLine(label, statusOK, message, colorize)
}

func totalDuration(result *batch.Result) string {
	var total int64
	for _, outcome := range result.Outcomes {
		total += outcome.Duration.Milliseconds()
	}
	return fmt.Sprintf("%.1fs", float64(total)/1000)
}

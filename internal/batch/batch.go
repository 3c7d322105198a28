package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mediaconv/internal/converters"
	"mediaconv/internal/dispatch"
	"mediaconv/internal/history"
	"mediaconv/internal/outpath"
	"mediaconv/internal/registry"
	"mediaconv/internal/services"
)

// Outcome is the recorded result of one conversion job.
type Outcome struct {
	InputPath  string
	OutputPath string
	Renamed    bool
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the job completed without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Result aggregates the outcomes of one invocation, in job enumeration order.
type Result struct {
	RunID    string
	Outcomes []Outcome
}

// Attempted returns the number of jobs run.
func (r *Result) Attempted() int {
	return len(r.Outcomes)
}

// Succeeded returns the number of jobs that completed.
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of jobs that did not complete.
func (r *Result) Failed() int {
	return r.Attempted() - r.Succeeded()
}

// NothingToDo reports whether no candidate files were found. It is a normal
// outcome for directory scans, not an error.
func (r *Result) NothingToDo() bool {
	return len(r.Outcomes) == 0
}

// Orchestrator expands inputs into conversion jobs, runs them sequentially
// through the dispatcher, and accumulates outcomes without halting on
// individual failures. One corrupt or unsupported file degrades the batch
// result but never prevents sibling files from being processed.
type Orchestrator struct {
	reg       *registry.Registry
	disp      *dispatch.Dispatcher
	store     *history.Store
	outputDir string
	logger    *slog.Logger
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithHistory records every outcome in the given store.
func WithHistory(store *history.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithOutputDir forces all outputs into one directory instead of writing next
// to each input.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = dir
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an orchestrator.
func New(reg *registry.Registry, disp *dispatch.Dispatcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reg:    reg,
		disp:   disp,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunFiles converts an explicit list of files, deriving a default output path
// for each. A file whose extension is unregistered is recorded as failed and
// processing continues with the next one.
func (o *Orchestrator) RunFiles(ctx context.Context, inputs []string, opts converters.Options) *Result {
	result := &Result{RunID: uuid.NewString()}
	for _, input := range inputs {
		result.Outcomes = append(result.Outcomes, o.runJob(ctx, result.RunID, input, "", opts))
	}
	return result
}

// RunSingle converts one file. A non-empty output overrides the derived
// default path; deconfliction still applies.
func (o *Orchestrator) RunSingle(ctx context.Context, input, output string, opts converters.Options) *Result {
	result := &Result{RunID: uuid.NewString()}
	result.Outcomes = append(result.Outcomes, o.runJob(ctx, result.RunID, input, output, opts))
	return result
}

// RunDirectory scans dir (non-recursive) for files whose extension is a
// registered input extension and converts each one. An unreadable directory
// is an orchestration fault and aborts the whole invocation.
func (o *Orchestrator) RunDirectory(ctx context.Context, dir string, opts converters.Options) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !o.reg.Supports(filepath.Ext(entry.Name())) {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, entry.Name()))
	}

	o.logger.Debug("directory scan",
		slog.String("dir", dir),
		slog.Int("candidates", len(inputs)),
	)
	return o.RunFiles(ctx, inputs, opts), nil
}

func (o *Orchestrator) runJob(ctx context.Context, runID, input, output string, opts converters.Options) Outcome {
	started := time.Now()
	outcome := Outcome{InputPath: input}

	derived := false
	if output == "" {
		output, derived = outpath.Derive(o.reg, input)
		if derived {
			output = outpath.InDir(output, o.outputDir)
		}
	} else {
		derived = true
	}

	if !derived {
		outcome.Err = services.Wrap(services.ErrUnsupported, "batch", "",
			fmt.Sprintf("unsupported input extension %q", filepath.Ext(input)), nil)
	} else {
		res, err := o.disp.Convert(ctx, input, output, opts)
		if err != nil {
			outcome.Err = err
		} else {
			outcome.OutputPath = res.OutputPath
			outcome.Renamed = res.Renamed
		}
	}
	outcome.Duration = time.Since(started)

	if outcome.Err != nil {
		o.logger.Warn("conversion failed",
			slog.String("input", input),
			slog.String("kind", services.Kind(outcome.Err)),
			slog.String("error", outcome.Err.Error()),
		)
	} else {
		o.logger.Info("converted",
			slog.String("input", input),
			slog.String("output", outcome.OutputPath),
			slog.Duration("duration", outcome.Duration),
		)
	}

	o.record(ctx, runID, outcome)
	return outcome
}

// record writes the outcome to the history store when one is attached.
// History is an audit trail; a write failure is logged and otherwise ignored
// so it cannot fail a conversion that already succeeded.
func (o *Orchestrator) record(ctx context.Context, runID string, outcome Outcome) {
	if o.store == nil {
		return
	}

	rec := history.Record{
		RunID:      runID,
		InputPath:  outcome.InputPath,
		OutputPath: outcome.OutputPath,
		InputExt:   registry.NormalizeExt(filepath.Ext(outcome.InputPath)),
		Status:     history.StatusSucceeded,
		Duration:   outcome.Duration,
	}
	if outcome.OutputPath != "" {
		rec.OutputExt = registry.NormalizeExt(filepath.Ext(outcome.OutputPath))
	}
	if outcome.Err != nil {
		rec.Status = history.StatusFailed
		rec.ErrorKind = services.Kind(outcome.Err)
		rec.ErrorDetail = outcome.Err.Error()
	}

	if err := o.store.Record(ctx, rec); err != nil {
		o.logger.Warn("history write failed", slog.String("error", err.Error()))
	}
}

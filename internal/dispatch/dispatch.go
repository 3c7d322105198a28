package dispatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediaconv/internal/converters"
	"mediaconv/internal/fileutil"
	"mediaconv/internal/outpath"
	"mediaconv/internal/registry"
	"mediaconv/internal/services"
)

// Result reports a completed conversion. OutputPath is the final location,
// which differs from the requested path when deconfliction renamed it.
type Result struct {
	InputPath  string
	OutputPath string
	Renamed    bool
}

// Dispatcher validates a single (input, output) pair against the registry,
// reserves a collision-free output path, and invokes the converter
// capability. Converters write into the staging directory; the finished file
// is moved onto the reserved path afterwards, so an interrupted conversion
// never leaves a partial file at the destination.
type Dispatcher struct {
	reg        *registry.Registry
	stagingDir string
	logger     *slog.Logger
}

// New constructs a dispatcher. logger may be nil.
func New(reg *registry.Registry, stagingDir string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{reg: reg, stagingDir: stagingDir, logger: logger}
}

// Convert runs one conversion. Failures are classified with the services
// error markers: ErrNotFound for a missing input, ErrUnsupported for a pair
// the registry does not know, ErrConversionFailed for anything the converter
// capability reports. The converter is never invoked when validation fails.
func (d *Dispatcher) Convert(ctx context.Context, inputPath, outputPath string, opts converters.Options) (Result, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, services.Wrap(services.ErrNotFound, "dispatch", "", fmt.Sprintf("input file %s does not exist", inputPath), nil)
		}
		return Result{}, services.Wrap(services.ErrNotFound, "dispatch", "inspect input", inputPath, err)
	}
	if info.IsDir() {
		return Result{}, services.Wrap(services.ErrUnsupported, "dispatch", "", fmt.Sprintf("%s is a directory, not a file", inputPath), nil)
	}

	inExt := registry.NormalizeExt(filepath.Ext(inputPath))
	outExt := registry.NormalizeExt(filepath.Ext(outputPath))
	converter, ok := d.reg.Lookup(inExt, outExt)
	if !ok {
		return Result{}, services.Wrap(services.ErrUnsupported, "dispatch", "",
			fmt.Sprintf("no converter for %s -> %s", extOrNone(inExt), extOrNone(outExt)), nil)
	}

	if err := d.ensureStaging(); err != nil {
		return Result{}, services.Wrap(services.ErrConversionFailed, "dispatch", "prepare staging", "", err)
	}

	finalPath, err := d.reserveOutput(outputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConversionFailed, "dispatch", "reserve output", outputPath, err)
	}

	stagedPath := filepath.Join(d.stagingDir, uuid.NewString()+outExt)

	d.logger.Debug("converting",
		slog.String("input", inputPath),
		slog.String("output", finalPath),
		slog.String("converter", converter.Name()),
	)

	if err := converter.Convert(ctx, inputPath, stagedPath, opts); err != nil {
		_ = os.Remove(stagedPath)
		_ = os.Remove(finalPath)
		return Result{}, services.Wrap(services.ErrConversionFailed, "dispatch", "convert", inputPath, err)
	}

	if err := fileutil.MoveFile(stagedPath, finalPath); err != nil {
		_ = os.Remove(stagedPath)
		_ = os.Remove(finalPath)
		return Result{}, services.Wrap(services.ErrConversionFailed, "dispatch", "finalize output", finalPath, err)
	}

	return Result{
		InputPath:  inputPath,
		OutputPath: finalPath,
		Renamed:    finalPath != outputPath,
	}, nil
}

// reserveOutput deconflicts the requested path and claims the chosen name
// with an exclusive create. A per-directory lock file serializes concurrent
// mediaconv processes targeting the same directory, closing the window
// between the existence probe and the claim. The empty placeholder is
// replaced by the staged file, or removed on failure.
func (d *Dispatcher) reserveOutput(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", dir, err)
	}

	lock := flock.New(d.lockPathFor(dir))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire output lock: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	for {
		candidate, err := outpath.Deconflict(path)
		if err != nil {
			return "", err
		}
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("reserve %q: %w", candidate, err)
		}
		// Raced with a writer outside the lock; probe again.
	}
}

func (d *Dispatcher) lockPathFor(outputDir string) string {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	sum := sha256.Sum256([]byte(abs))
	name := hex.EncodeToString(sum[:8]) + ".lock"
	return filepath.Join(d.stagingDir, "locks", name)
}

func (d *Dispatcher) ensureStaging() error {
	return os.MkdirAll(filepath.Join(d.stagingDir, "locks"), 0o755)
}

func extOrNone(ext string) string {
	if ext == "" {
		return "(no extension)"
	}
	return ext
}

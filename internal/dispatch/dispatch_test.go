package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaconv/internal/converters"
	"mediaconv/internal/registry"
	"mediaconv/internal/services"
)

// writingConverter writes fixed content to the output path, standing in for
// an external codec tool.
type writingConverter struct {
	content  string
	err      error
	calls    int
	lastOpts converters.Options
}

func (w *writingConverter) Name() string { return "fake" }

func (w *writingConverter) Convert(_ context.Context, inputPath, outputPath string, opts converters.Options) error {
	w.calls++
	w.lastOpts = opts
	if w.err != nil {
		return w.err
	}
	return os.WriteFile(outputPath, []byte(w.content), 0o644)
}

func testDispatcher(t *testing.T, conv converters.Converter) *Dispatcher {
	t.Helper()
	reg := registry.NewFromEntries([]registry.Entry{
		{Pair: registry.Pair{Input: ".webp", Output: ".png"}, Converter: conv},
		{Pair: registry.Pair{Input: ".svg", Output: ".png"}, Converter: conv},
	})
	return New(reg, filepath.Join(t.TempDir(), "staging"), nil)
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("input bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertSuccess(t *testing.T) {
	conv := &writingConverter{content: "png bytes"}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	input := writeInput(t, dir, "photo.webp")
	output := filepath.Join(dir, "photo.png")

	res, err := d.Convert(context.Background(), input, output, converters.Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.OutputPath != output || res.Renamed {
		t.Fatalf("result = %+v", res)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png bytes" {
		t.Fatalf("output content = %q", got)
	}
}

func TestConvertMissingInput(t *testing.T) {
	conv := &writingConverter{}
	d := testDispatcher(t, conv)
	dir := t.TempDir()

	_, err := d.Convert(context.Background(), filepath.Join(dir, "absent.webp"), filepath.Join(dir, "absent.png"), converters.Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if conv.calls != 0 {
		t.Fatal("converter must not run for a missing input")
	}
}

func TestConvertUnsupportedPair(t *testing.T) {
	conv := &writingConverter{}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	input := writeInput(t, dir, "notes.txt")

	_, err := d.Convert(context.Background(), input, filepath.Join(dir, "notes.png"), converters.Options{})
	if !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	for _, ext := range []string{".txt", ".png"} {
		if !strings.Contains(err.Error(), ext) {
			t.Fatalf("error %q should name extension %s", err, ext)
		}
	}
	if conv.calls != 0 {
		t.Fatal("converter must not run for an unsupported pair")
	}
}

func TestConvertDirectoryInput(t *testing.T) {
	conv := &writingConverter{}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	sub := filepath.Join(dir, "album.webp")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := d.Convert(context.Background(), sub, filepath.Join(dir, "album.png"), converters.Options{})
	if !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for directory input, got %v", err)
	}
}

func TestConvertDeconflictsExistingOutput(t *testing.T) {
	conv := &writingConverter{content: "new"}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	input := writeInput(t, dir, "photo.webp")
	output := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(output, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := d.Convert(context.Background(), input, output, converters.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "photo (1).png")
	if res.OutputPath != want || !res.Renamed {
		t.Fatalf("result = %+v, want renamed to %q", res, want)
	}

	// Pre-existing file is untouched.
	original, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(original) != "original" {
		t.Fatalf("existing output overwritten: %q", original)
	}
	renamed, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(renamed) != "new" {
		t.Fatalf("renamed output = %q", renamed)
	}
}

func TestConvertFailureCleansUp(t *testing.T) {
	conv := &writingConverter{err: errors.New("codec exploded")}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	input := writeInput(t, dir, "photo.webp")
	output := filepath.Join(dir, "photo.png")

	_, err := d.Convert(context.Background(), input, output, converters.Options{})
	if !errors.Is(err, services.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "codec exploded") {
		t.Fatalf("underlying cause lost: %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("failed conversion left a placeholder at the destination")
	}
}

func TestConvertForwardsOptionsUnmodified(t *testing.T) {
	conv := &writingConverter{content: "png"}
	d := testDispatcher(t, conv)
	dir := t.TempDir()
	input := writeInput(t, dir, "logo.svg")

	opts := converters.Options{Width: 512, Scale: 1.25}
	if _, err := d.Convert(context.Background(), input, filepath.Join(dir, "logo.png"), opts); err != nil {
		t.Fatal(err)
	}
	if conv.lastOpts != opts {
		t.Fatalf("options mutated: %+v", conv.lastOpts)
	}
}

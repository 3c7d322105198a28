package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mediaconv/internal/services"
)

type fakeExecutor struct {
	binary string
	args   []string
	stderr []string
	err    error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string, onStderr func(string)) error {
	f.binary = binary
	f.args = args
	for _, line := range f.stderr {
		onStderr(line)
	}
	return f.err
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestExtractAudioArgs(t *testing.T) {
	fake := &fakeExecutor{}
	client, err := New("ffmpeg", 0, WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}

	if err := client.ExtractAudio(context.Background(), "song.mp3", "song.wav", 44100, 2); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}

	want := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-i", "song.mp3", "-vn", "-acodec", "pcm_s16le",
		"-ar", "44100", "-ac", "2", "song.wav",
	}
	if strings.Join(fake.args, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", fake.args, want)
	}
}

func TestExtractAudioOmitsZeroParams(t *testing.T) {
	fake := &fakeExecutor{}
	client, _ := New("ffmpeg", 0, WithExecutor(fake))

	if err := client.ExtractAudio(context.Background(), "in.m4a", "out.wav", 0, 0); err != nil {
		t.Fatal(err)
	}
	for _, arg := range fake.args {
		if arg == "-ar" || arg == "-ac" {
			t.Fatalf("zero params should be omitted: %v", fake.args)
		}
	}
}

func TestDecodeImageArgs(t *testing.T) {
	fake := &fakeExecutor{}
	client, _ := New("ffmpeg", 0, WithExecutor(fake))

	if err := client.DecodeImage(context.Background(), "pic.webp", "pic.png"); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(fake.args, " ")
	if !strings.Contains(joined, "-i pic.webp -frames:v 1 pic.png") {
		t.Fatalf("args = %v", fake.args)
	}
}

func TestRunSurfacesStderrTail(t *testing.T) {
	fake := &fakeExecutor{
		stderr: []string{"", "pic.webp: Invalid data found when processing input"},
		err:    errors.New("exit status 1"),
	}
	client, _ := New("ffmpeg", 0, WithExecutor(fake))

	err := client.DecodeImage(context.Background(), "pic.webp", "pic.png")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error should carry stderr detail: %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error should carry the external tool marker: %v", err)
	}
}

func TestStderrTailKeepsLastLines(t *testing.T) {
	var tail stderrTail
	for _, line := range []string{"one", "two", "three", "four", "five"} {
		tail.record(line)
	}
	got := tail.String()
	if strings.Contains(got, "one") || !strings.Contains(got, "five") {
		t.Fatalf("tail = %q", got)
	}
}

package rsvg

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExecutor struct {
	args   []string
	stderr []string
	err    error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string, onStderr func(string)) error {
	f.args = args
	for _, line := range f.stderr {
		onStderr(line)
	}
	return f.err
}

func TestRenderWidthOnlyKeepsAspectRatio(t *testing.T) {
	fake := &fakeExecutor{}
	client, err := New("rsvg-convert", 0, WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}

	if err := client.Render(context.Background(), "logo.svg", "logo.png", 512, 0, 0); err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(fake.args, " ")
	if !strings.Contains(joined, "--width 512") {
		t.Fatalf("missing width: %v", fake.args)
	}
	if !strings.Contains(joined, "--keep-aspect-ratio") {
		t.Fatalf("single-dimension render must keep aspect ratio: %v", fake.args)
	}
	if strings.Contains(joined, "--height") {
		t.Fatalf("height should be omitted: %v", fake.args)
	}
}

func TestRenderBothDimensions(t *testing.T) {
	fake := &fakeExecutor{}
	client, _ := New("rsvg-convert", 0, WithExecutor(fake))

	if err := client.Render(context.Background(), "logo.svg", "logo.png", 512, 256, 0); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(fake.args, " ")
	if strings.Contains(joined, "--keep-aspect-ratio") {
		t.Fatalf("explicit width+height must not force aspect ratio: %v", fake.args)
	}
	if !strings.Contains(joined, "--width 512") || !strings.Contains(joined, "--height 256") {
		t.Fatalf("args = %v", fake.args)
	}
}

func TestRenderZoom(t *testing.T) {
	fake := &fakeExecutor{}
	client, _ := New("rsvg-convert", 0, WithExecutor(fake))

	if err := client.Render(context.Background(), "logo.svgz", "logo.png", 0, 0, 1.5); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(fake.args, " ")
	if !strings.Contains(joined, "--zoom 1.5") {
		t.Fatalf("args = %v", fake.args)
	}
}

func TestRenderSurfacesStderr(t *testing.T) {
	fake := &fakeExecutor{
		stderr: []string{"Error reading SVG: XML parse error"},
		err:    errors.New("exit status 1"),
	}
	client, _ := New("rsvg-convert", 0, WithExecutor(fake))

	err := client.Render(context.Background(), "broken.svg", "broken.png", 0, 0, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "XML parse error") {
		t.Fatalf("error should carry stderr detail: %v", err)
	}
}

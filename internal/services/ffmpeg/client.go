package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediaconv/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStderr func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps FFmpeg CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an FFmpeg client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ExtractAudio decodes the audio track of inputPath into a PCM WAV file at
// outputPath. sampleRate and channels are forwarded when positive; zero keeps
// the source's values. Video streams are dropped, so MP4/M4V containers yield
// their audio track only.
func (c *Client) ExtractAudio(ctx context.Context, inputPath, outputPath string, sampleRate, channels int) error {
	args := []string{"-i", inputPath, "-vn", "-acodec", "pcm_s16le"}
	if sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(sampleRate))
	}
	if channels > 0 {
		args = append(args, "-ac", strconv.Itoa(channels))
	}
	args = append(args, outputPath)
	return c.run(ctx, args)
}

// DecodeImage decodes a single-frame image (WebP, AVIF) into a PNG at
// outputPath.
func (c *Client) DecodeImage(ctx context.Context, inputPath, outputPath string) error {
	args := []string{"-i", inputPath, "-frames:v", "1", outputPath}
	return c.run(ctx, args)
}

func (c *Client) run(ctx context.Context, args []string) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	full := append([]string{"-hide_banner", "-nostdin", "-y", "-loglevel", "error"}, args...)

	var tail stderrTail
	if err := c.exec.Run(runCtx, c.binary, full, tail.record); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "", tail.String(), err)
	}
	return nil
}

// stderrTail keeps the last few stderr lines so failures surface the actual
// codec complaint instead of a bare exit status.
type stderrTail struct {
	lines []string
}

const stderrTailMax = 4

func (t *stderrTail) record(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > stderrTailMax {
		t.lines = t.lines[len(t.lines)-stderrTailMax:]
	}
}

func (t *stderrTail) String() string {
	return strings.Join(t.lines, "; ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onStderr != nil {
				onStderr(scanner.Text())
			}
		}
	}()

	waitErr := cmd.Wait()
	wg.Wait()
	if waitErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return waitErr
	}
	return nil
}

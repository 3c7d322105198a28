// Package ffmpeg wraps the ffmpeg command line tool for audio extraction and
// single-frame image decoding. The Executor seam allows tests to run without
// the binary installed.
package ffmpeg

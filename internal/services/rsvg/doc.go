// Package rsvg wraps the rsvg-convert command line tool for SVG
// rasterization. The Executor seam allows tests to run without the binary
// installed.
package rsvg

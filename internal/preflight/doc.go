// Package preflight verifies the environment before conversions run:
// external binaries on PATH, writable directories, and disk headroom.
package preflight

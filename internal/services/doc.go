// Package services defines shared utilities consumed by the conversion
// dispatcher and the external tool clients.
//
// It holds the structured error markers plus the Wrap helper that classify
// per-file failures (missing input, unsupported pair, tool failure) so
// callers can branch on kind without parsing messages. The subpackages wrap
// the external codec binaries, each behind an Executor seam for tests.
//
// Use these helpers when wiring new capabilities so failure classification
// stays consistent across formats.
package services

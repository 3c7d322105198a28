// Package logging builds the application slog.Logger: a compact console
// handler for terminals, JSON for machine consumption, with output teed to a
// log file under the configured log directory.
package logging

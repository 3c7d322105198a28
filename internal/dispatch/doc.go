// Package dispatch validates and runs a single file conversion: registry
// lookup, collision-free output reservation, capability invocation, and
// staged-file promotion. Per-file failures come back as classified errors so
// the batch layer can record them without aborting.
package dispatch

// Package outpath derives default output paths from input paths and finds
// collision-free output names by appending " (N)" counters.
package outpath

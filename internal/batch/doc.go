// Package batch expands explicit file lists and directory scans into
// sequential conversion jobs and aggregates their outcomes. Its central
// guarantee is failure isolation: a per-file error is recorded and the batch
// moves on.
package batch

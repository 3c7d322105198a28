// Package history records every conversion outcome in a local SQLite
// database so past runs can be inspected with the history command. It is an
// audit log, not an operational queue; nothing reads it on the conversion
// path.
package history

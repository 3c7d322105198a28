// Package registry holds the fixed table of supported format pairs and the
// converter capability behind each one. Adding a format means adding one
// entry here plus a capability in internal/converters; dispatch logic never
// changes.
package registry

// Package converters defines the capability boundary between the conversion
// core and the external codec tools. The core never inspects pixels or
// samples; it routes a validated (input, output) pair to a Converter and
// relies on its error contract alone.
package converters

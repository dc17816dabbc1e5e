// Package logging builds the slog loggers used across crank.
//
// Two handler formats are supported: a human-oriented console format with
// one event per line, and JSON for machine consumption. The console handler
// serializes writes so parallel transcode workers never interleave output.
package logging

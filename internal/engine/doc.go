// Package engine builds and runs the external ffmpeg invocation for a
// single transcode. The argument list is deterministic for a given
// configuration so runs are reproducible and easy to audit from logs.
package engine

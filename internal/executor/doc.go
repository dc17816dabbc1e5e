// Package executor runs the transcode for a single discovered item and
// places the output in the library directory matching its classification.
// Failures never propagate as errors; they are captured in the Result so
// one bad file cannot take down a batch.
package executor

// Package batch coordinates one run over the discovered work list: bounded
// parallel dispatch, per-item classification, and a consolidated report.
// The scheduler guarantees exactly one result per discovered item.
package batch

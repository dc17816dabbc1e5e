// Package services defines shared utilities consumed by the batch pipeline
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and item names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent handling (fatal setup errors vs per-item failures).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays uniform across components.
package services

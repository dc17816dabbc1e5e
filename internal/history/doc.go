// Package history records finished batch runs in a SQLite database under
// the log directory so past activity can be inspected from the CLI.
package history

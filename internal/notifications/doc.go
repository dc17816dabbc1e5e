// Package notifications pushes batch lifecycle events to an ntfy topic.
// Without a configured topic every notification is a silent no-op, so
// callers never need to branch on whether notifications are enabled.
package notifications

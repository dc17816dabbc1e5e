// Package schedule derives cron expressions from the configured recurrence
// rule and installs them in the user's crontab. Registration is idempotent:
// re-registering replaces the previous entry for the same command.
package schedule

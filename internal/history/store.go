package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"crank/internal/batch"
	"crank/internal/config"
)

// Run summarizes one recorded batch run.
type Run struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	TimedOut   bool
	Succeeded  int
	Failed     int
	Skipped    int
}

// JobRecord is one persisted per-item result.
type JobRecord struct {
	RunID           string
	SourcePath      string
	DisplayName     string
	Outcome         string
	Kind            string
	DestinationPath string
	ExitCode        int
	Diagnostic      string
	Duration        time.Duration
}

// Store persists batch run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun persists a finished batch report and all of its item results in
// one transaction.
func (s *Store) RecordRun(ctx context.Context, report *batch.Report) error {
	if report == nil {
		return errors.New("report is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batch_runs (run_id, started_at, finished_at, timed_out, succeeded, failed, skipped)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(report.TimedOut),
		report.Succeeded(),
		report.Failed(),
		report.Skipped(),
	)
	if err != nil {
		return fmt.Errorf("insert batch run: %w", err)
	}

	for _, result := range report.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO job_results (run_id, source_path, display_name, outcome, kind,
                destination_path, exit_code, diagnostic, duration_ms)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID,
			result.Item.SourcePath,
			result.Item.DisplayName,
			string(result.Outcome),
			string(result.Classification.Kind),
			nullableString(result.DestinationPath),
			result.ExitCode,
			nullableString(result.Diagnostic),
			result.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert job result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs first, at most limit entries.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, timed_out, succeeded, failed, skipped
         FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedRaw string
			finishRaw  string
			timedOut   int
		)
		if err := rows.Scan(&run.RunID, &startedRaw, &finishRaw, &timedOut,
			&run.Succeeded, &run.Failed, &run.Skipped); err != nil {
			return nil, err
		}
		run.TimedOut = timedOut != 0
		if t, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
			run.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, finishRaw); err == nil {
			run.FinishedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunResults returns the per-item records for one run in insertion order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source_path, display_name, outcome, kind,
            destination_path, exit_code, diagnostic, duration_ms
         FROM job_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query job results: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var (
			record     JobRecord
			dest       sql.NullString
			diagnostic sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&record.RunID, &record.SourcePath, &record.DisplayName,
			&record.Outcome, &record.Kind, &dest, &record.ExitCode,
			&diagnostic, &durationMS); err != nil {
			return nil, err
		}
		record.DestinationPath = dest.String
		record.Diagnostic = diagnostic.String
		record.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, record)
	}
	return records, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"crank/internal/classify"
	"crank/internal/config"
	"crank/internal/discovery"
	"crank/internal/engine"
	"crank/internal/logging"
	"crank/internal/services"
)

// Outcome describes how a single job ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Result records everything the report needs about one item.
type Result struct {
	Item            discovery.Item
	Outcome         Outcome
	Classification  classify.Result
	DestinationPath string
	ExitCode        int
	Diagnostic      string
	Duration        time.Duration
}

// Executor transcodes one item and routes the output by classification.
type Executor struct {
	cfg    *config.Config
	runner *engine.Runner
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Executor {
	return &Executor{
		cfg:    cfg,
		runner: engine.NewRunner(cfg, logger),
		logger: logging.NewComponentLogger(logger, "executor"),
	}
}

// Execute runs the engine for a single item. A failure is always isolated:
// the error state lives entirely in the returned Result and the source file
// is left untouched unless the transcode fully succeeded.
func (e *Executor) Execute(ctx context.Context, item discovery.Item, class classify.Result) Result {
	result := Result{Item: item, Outcome: OutcomeFailed, Classification: class}

	destDir := e.destinationDir(class.Kind)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		result.ExitCode = -1
		result.Diagnostic = fmt.Sprintf("create destination directory: %v", err)
		return result
	}
	dest := filepath.Join(destDir, item.DisplayName)
	result.DestinationPath = dest

	runResult, err := e.runner.Run(ctx, item.SourcePath, dest)
	result.ExitCode = runResult.ExitCode
	result.Duration = runResult.Duration
	if err != nil {
		// The run stopped before the engine was launched. Nothing ran, so
		// the item counts as undispatched rather than failed.
		if errors.Is(err, services.ErrTimeout) {
			skip := Skip(item, "run stopped before the engine started")
			skip.Classification = class
			return skip
		}
		result.Diagnostic = diagnostic(err, runResult.Stderr)
		e.removePartial(dest)
		e.logger.Error("transcode failed",
			logging.String(logging.FieldItem, item.DisplayName),
			logging.String(logging.FieldOutcome, string(OutcomeFailed)),
			logging.Int("exit_code", runResult.ExitCode),
			logging.Error(err))
		return result
	}

	if err := e.verifyOutput(item.SourcePath, dest); err != nil {
		result.ExitCode = -1
		result.Diagnostic = err.Error()
		e.removePartial(dest)
		e.logger.Error("destination verification failed",
			logging.String(logging.FieldItem, item.DisplayName),
			logging.String(logging.FieldOutcome, string(OutcomeFailed)),
			logging.Error(err))
		return result
	}

	if e.cfg.Transcode.DeleteOriginal {
		if err := os.Remove(item.SourcePath); err != nil {
			// The transcode itself worked. Keep the success but surface
			// the leftover source in the diagnostic.
			result.Diagnostic = fmt.Sprintf("remove original: %v", err)
			e.logger.Warn("could not remove original",
				logging.String(logging.FieldItem, item.DisplayName),
				logging.Error(err))
		}
	}

	result.Outcome = OutcomeSucceeded
	e.logger.Info("transcode complete",
		logging.String(logging.FieldItem, item.DisplayName),
		logging.String(logging.FieldOutcome, string(OutcomeSucceeded)),
		logging.String("kind", string(class.Kind)),
		logging.String("dest", dest),
		logging.Duration("took", result.Duration))
	return result
}

// Skip produces the Result recorded for an item that was never dispatched.
func Skip(item discovery.Item, reason string) Result {
	return Result{
		Item:       item,
		Outcome:    OutcomeSkipped,
		ExitCode:   -1,
		Diagnostic: reason,
	}
}

func (e *Executor) destinationDir(kind classify.Kind) string {
	switch kind {
	case classify.KindMovie:
		if e.cfg.Paths.MoviesDir != "" {
			return e.cfg.Paths.MoviesDir
		}
	case classify.KindSeries:
		if e.cfg.Paths.TVDir != "" {
			return e.cfg.Paths.TVDir
		}
	}
	return e.cfg.Paths.OutputDir
}

// durationTolerance bounds how far the output duration may drift from the
// source before the transcode is treated as corrupt.
const durationTolerance = time.Second

// verifyOutput guards the delete-original path: the source is only ever
// removed after the output is confirmed present, non-empty, and (when
// ffprobe is available) of matching duration.
func (e *Executor) verifyOutput(source, dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("destination missing after engine exit: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("destination %s is empty after engine exit", dest)
	}
	return e.verifyDuration(source, dest)
}

// verifyDuration compares source and output container durations. Probe
// failures are tolerated; only a confirmed mismatch fails the job.
func (e *Executor) verifyDuration(source, dest string) error {
	if !engine.ProbeAvailable() {
		return nil
	}
	sourceDuration, err := engine.ProbeDuration(source)
	if err != nil {
		e.logger.Warn("could not probe source duration",
			logging.String("source", source), logging.Error(err))
		return nil
	}
	destDuration, err := engine.ProbeDuration(dest)
	if err != nil {
		e.logger.Warn("could not probe output duration",
			logging.String("dest", dest), logging.Error(err))
		return nil
	}
	diff := sourceDuration - destDuration
	if diff < 0 {
		diff = -diff
	}
	if diff > durationTolerance {
		return fmt.Errorf("duration mismatch: source %s, output %s", sourceDuration, destDuration)
	}
	return nil
}

func (e *Executor) removePartial(dest string) {
	if dest == "" {
		return
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		e.logger.Warn("could not remove partial output", logging.String("dest", dest), logging.Error(err))
	}
}

func diagnostic(err error, stderr string) string {
	if stderr != "" {
		return fmt.Sprintf("%v: %s", err, stderr)
	}
	return err.Error()
}

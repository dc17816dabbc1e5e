package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"crank/internal/classify"
	"crank/internal/config"
	"crank/internal/discovery"
	"crank/internal/executor"
	"crank/internal/logging"
	"crank/internal/services"
)

// JobExecutor runs one item to completion. Implementations must confine all
// failure state to the returned Result.
type JobExecutor interface {
	Execute(ctx context.Context, item discovery.Item, class classify.Result) executor.Result
}

// ItemClassifier decides the routing category for one item.
type ItemClassifier interface {
	Classify(ctx context.Context, displayName string) classify.Result
}

// Scheduler fans discovered items out to a bounded pool of workers.
type Scheduler struct {
	cfg        *config.Config
	exec       JobExecutor
	classifier ItemClassifier
	timeout    time.Duration
	logger     *slog.Logger
}

func NewScheduler(cfg *config.Config, exec JobExecutor, classifier ItemClassifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		exec:       exec,
		classifier: classifier,
		timeout:    batchTimeout(cfg),
		logger:     logging.NewComponentLogger(logger, "batch"),
	}
}

func batchTimeout(cfg *config.Config) time.Duration {
	minutes := cfg.Transcode.BatchTimeoutMinutes
	if minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// Run processes the items with at most max_concurrent_jobs in flight.
// Dispatch follows discovery order. When the context is cancelled or the
// configured batch timeout elapses, no further items start; jobs already
// running are left to finish so their output files stay intact. Every item
// produces exactly one Result.
func (s *Scheduler) Run(ctx context.Context, items []discovery.Item) *Report {
	report := newReport()
	runCtx := services.WithRunID(ctx, report.RunID)

	var cancel context.CancelFunc
	dispatchCtx := runCtx
	if s.timeout > 0 {
		dispatchCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}

	s.logger.Info("batch starting",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("items", len(items)),
		logging.Int("max_jobs", s.cfg.Transcode.MaxConcurrentJobs))

	group := new(errgroup.Group)
	limit := s.cfg.Transcode.MaxConcurrentJobs
	if limit < 1 {
		limit = 1
	}
	group.SetLimit(limit)

	for _, item := range items {
		if err := dispatchCtx.Err(); err != nil {
			report.append(executor.Skip(item, s.skipReason(err, runCtx)))
			continue
		}

		group.Go(func() error {
			// Go blocks while the pool is saturated; the run may stop in
			// the meantime, in which case this item was never dispatched.
			if err := dispatchCtx.Err(); err != nil {
				report.append(executor.Skip(item, s.skipReason(err, runCtx)))
				return nil
			}
			class := classify.Result{Kind: classify.KindUnknown}
			if s.classifier != nil {
				class = s.classifier.Classify(runCtx, item.DisplayName)
			}
			result := s.exec.Execute(dispatchCtx, item, class)
			report.append(result)
			return nil
		})
	}

	_ = group.Wait()
	report.finish(s.ownTimerElapsed(dispatchCtx, runCtx))

	s.logger.Info("batch finished",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("succeeded", report.Succeeded()),
		logging.Int("failed", report.Failed()),
		logging.Int("skipped", report.Skipped()),
		logging.Bool("timed_out", report.TimedOut),
		logging.Duration("took", report.Duration()))
	return report
}

// ownTimerElapsed reports whether the scheduler's configured timeout fired.
// A deadline inherited from the caller's context is external cancellation,
// not a batch timeout, and the parent's own Err distinguishes the two.
func (s *Scheduler) ownTimerElapsed(dispatchCtx, runCtx context.Context) bool {
	return s.timeout > 0 &&
		errors.Is(dispatchCtx.Err(), context.DeadlineExceeded) &&
		runCtx.Err() == nil
}

func (s *Scheduler) skipReason(dispatchErr error, runCtx context.Context) string {
	if errors.Is(dispatchErr, context.DeadlineExceeded) && runCtx.Err() == nil {
		return "batch timeout elapsed before dispatch"
	}
	return "run cancelled before dispatch"
}

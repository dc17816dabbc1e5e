package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"crank/internal/batch"
	"crank/internal/classify"
	"crank/internal/deps"
	"crank/internal/discovery"
	"crank/internal/executor"
	"crank/internal/history"
	"crank/internal/logging"
	"crank/internal/notifications"
	"crank/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover pending media and transcode it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lockPath := filepath.Join(cfg.Paths.LogDir, "crank.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "run", "acquire lock", lockPath, err)
			}
			if !locked {
				return services.Wrap(services.ErrConfiguration, "run", "acquire lock",
					"another crank run is already in progress", nil)
			}
			defer func() { _ = lock.Unlock() }()

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "run", "preflight",
					missing[0].Detail, nil)
			}

			scanner := discovery.NewScanner(cfg, logger)
			items, err := scanner.Discover()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Nothing to transcode.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, renderItemsTable(items))
				fmt.Fprintf(out, "%d item(s) would be transcoded.\n", len(items))
				return nil
			}

			classifier, err := classify.NewFromConfig(cfg, logger)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "classify", "setup", "", err)
			}

			notifier := notifications.NewService(cfg)
			_ = notifier.NotifyBatchStarted(runCtx, len(items))

			var batchClassifier batch.ItemClassifier
			if cfg.ClassificationEnabled() {
				batchClassifier = classifier
			}

			sched := batch.NewScheduler(cfg, executor.New(cfg, logger), batchClassifier, logger)
			report := sched.Run(runCtx, items)

			store, err := history.Open(cfg)
			if err != nil {
				logger.Warn("history unavailable", logging.Error(err))
			} else {
				defer store.Close()
				if err := store.RecordRun(runCtx, report); err != nil {
					logger.Warn("could not record run history", logging.Error(err))
				}
			}

			_ = notifier.NotifyBatchCompleted(runCtx,
				report.Succeeded(), report.Failed(), report.Skipped(), report.Duration())

			// Cron captures stdout into mail; keep that output plain.
			if isTerminal(os.Stdout) {
				fmt.Fprintln(out, renderReportTable(report))
			} else {
				for _, result := range report.Results {
					fmt.Fprintf(out, "%s\t%s\t%s\n",
						result.Item.DisplayName, result.Outcome, result.Diagnostic)
				}
			}
			fmt.Fprintf(out, "Run %s: %d succeeded, %d failed, %d skipped in %s\n",
				report.RunID, report.Succeeded(), report.Failed(), report.Skipped(),
				report.Duration().Round(time.Second))
			if report.TimedOut {
				fmt.Fprintln(out, "Batch timeout elapsed; remaining items were skipped.")
			}

			if !report.AllSucceeded() {
				return &batchFailedError{failed: report.Failed(), skipped: report.Skipped()}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending work without transcoding")
	return cmd
}

func renderItemsTable(items []discovery.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.DisplayName,
			formatSize(item.SizeBytes),
		})
	}
	return renderTable(
		[]string{"File", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}

func renderReportTable(report *batch.Report) string {
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		diagnostic := result.Diagnostic
		if len(diagnostic) > 60 {
			diagnostic = diagnostic[:57] + "..."
		}
		rows = append(rows, []string{
			result.Item.DisplayName,
			string(result.Classification.Kind),
			string(result.Outcome),
			result.Duration.Round(time.Second).String(),
			diagnostic,
		})
	}
	return renderTable(
		[]string{"File", "Kind", "Outcome", "Took", "Notes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"crank/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "crank",
		Short:         "Batch media transcoding orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newDiscoverCommand(ctx))
	rootCmd.AddCommand(newScheduleCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}

// batchFailedError marks a run where some items did not succeed; the process
// still completed its work, so the message stays short.
type batchFailedError struct {
	failed  int
	skipped int
}

func (e *batchFailedError) Error() string {
	switch {
	case e.failed > 0 && e.skipped > 0:
		return "batch finished with failures and skipped items"
	case e.skipped > 0:
		return "batch finished with skipped items"
	default:
		return "batch finished with failures"
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var batchErr *batchFailedError
	if errors.As(err, &batchErr) {
		return exitDirty
	}
	if services.IsFatal(err) {
		return exitFatal
	}
	return exitDirty
}

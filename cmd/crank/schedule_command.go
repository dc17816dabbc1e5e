package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crank/internal/schedule"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the recurring transcode run",
	}

	scheduleCmd.AddCommand(newScheduleInstallCommand(ctx))
	scheduleCmd.AddCommand(newScheduleRemoveCommand(ctx))
	scheduleCmd.AddCommand(newScheduleShowCommand(ctx))

	return scheduleCmd
}

func newScheduleInstallCommand(ctx *commandContext) *cobra.Command {
	var timeOfDay string
	var intervalHours int

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the recurring run in the user's crontab",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			rule := schedule.Rule{
				TimeOfDay:     cfg.Schedule.TimeOfDay,
				IntervalHours: cfg.Schedule.IntervalHours,
			}
			if strings.TrimSpace(timeOfDay) != "" {
				rule.TimeOfDay = timeOfDay
			}
			if intervalHours > 0 {
				rule.IntervalHours = intervalHours
			}

			invocation, err := selfInvocation()
			if err != nil {
				return err
			}

			registrar := schedule.NewRegistrar(logger)
			if err := registrar.Register(cmd.Context(), rule, invocation); err != nil {
				return err
			}

			entry, _ := schedule.Entry(rule, invocation)
			fmt.Fprintf(cmd.OutOrStdout(), "Installed crontab entry:\n  %s\n", entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeOfDay, "time", "", "Time of day (HH:MM) overriding the configured value")
	cmd.Flags().IntVar(&intervalHours, "every", 0, "Interval in hours overriding the configured value")
	return cmd
}

func newScheduleRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the recurring run from the user's crontab",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			invocation, err := selfInvocation()
			if err != nil {
				return err
			}
			if err := schedule.NewRegistrar(logger).Unregister(cmd.Context(), invocation); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed crontab entry.")
			return nil
		},
	}
}

func newScheduleShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the crontab line that install would register",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rule := schedule.Rule{
				TimeOfDay:     cfg.Schedule.TimeOfDay,
				IntervalHours: cfg.Schedule.IntervalHours,
			}
			invocation, err := selfInvocation()
			if err != nil {
				return err
			}
			entry, err := schedule.Entry(rule, invocation)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

// selfInvocation returns the command line the cron entry should run: this
// binary's absolute path plus the run subcommand.
func selfInvocation() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return executable + " run", nil
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crank/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				records, err := store.RunResults(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintf(out, "No results recorded for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.DisplayName,
						record.Kind,
						record.Outcome,
						record.Duration.Round(time.Second).String(),
						record.Diagnostic,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Kind", "Outcome", "Took", "Notes"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No batch runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", run.Succeeded),
					fmt.Sprintf("%d", run.Failed),
					fmt.Sprintf("%d", run.Skipped),
					yesNo(run.TimedOut),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "OK", "Failed", "Skipped", "Timed Out"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-item results for one run")
	return cmd
}

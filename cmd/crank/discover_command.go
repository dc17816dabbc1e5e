package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crank/internal/discovery"
)

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List media files waiting in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			items, err := discovery.NewScanner(cfg, logger).Discover()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No pending media in %s\n", cfg.Paths.InputDir)
				return nil
			}
			fmt.Fprintln(out, renderItemsTable(items))
			fmt.Fprintf(out, "%d item(s) pending.\n", len(items))
			return nil
		},
	}
}

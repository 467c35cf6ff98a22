package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labdesk/internal/cli"
	"labdesk/internal/config"
	"labdesk/internal/log"
	"labdesk/internal/render/term"
	"labdesk/internal/store/memory"
	"labdesk/internal/tables"
)

func tableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "table <bookings|patients|tests>",
		Short:     "Print a dashboard table to the terminal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tables.IDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			expandAll, _ := cmd.Flags().GetBool("expand-all")

			cli.LoadEnvFile()
			cfg := config.Load()
			// Logs go to stderr so the table can be piped.
			logger := cli.SetupLogger(cfg, log.ComponentApp, os.Stderr)

			st := memory.New(loadDataset(logger, nil), 0)
			v, err := tableView(cmd.Context(), st, args[0], query, expandAll)
			if err != nil {
				return err
			}
			if err := term.New(cmd.OutOrStdout()).Render(v); err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			return nil
		},
	}
	cmd.Flags().String("query", "", "Search text matched against every field")
	cmd.Flags().Bool("expand-all", false, "Expand every group")
	return cmd
}

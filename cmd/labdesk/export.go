package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"labdesk/internal/cli"
	"labdesk/internal/export/sheets"
	"labdesk/internal/log"
	"labdesk/internal/store/memory"
	"labdesk/internal/tables"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every table, fully expanded, to Google Sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")

			cfg, logger, err := cli.Init(log.ComponentExport)
			if err != nil {
				return err
			}
			if err := cfg.ValidateExport(); err != nil {
				logger.Error("Export configuration invalid",
					"error_type", log.ErrorTypeConfiguration,
					log.FieldError, err)
				return err
			}

			ctx, stop := cli.SignalContext(cmd.Context(), logger)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			creds, err := sheets.Credentials(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
			if err != nil {
				return err
			}
			writer, err := sheets.NewGoogleWriter(ctx, cfg.GoogleSpreadsheetID, creds, logger)
			if err != nil {
				return err
			}

			st := memory.New(loadDataset(logger, nil), 0)
			var views []sheets.Table
			for _, id := range tables.IDs() {
				v, err := tableView(ctx, st, id, "", true)
				if err != nil {
					return err
				}
				views = append(views, sheets.Table{Name: id, View: v})
			}

			start := time.Now()
			if err := sheets.NewExporter(writer, cfg.ExportSheetPrefix, logger).Export(ctx, views); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			logger.Info("Export complete",
				log.FieldOperation, log.OpExport,
				"tables", len(views),
				log.FieldDuration, time.Since(start).Milliseconds())
			return nil
		},
	}
	cmd.Flags().Duration("timeout", 2*time.Minute, "Give up on the export after this long")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"insights-dashboard/internal/ingest"
	"insights-dashboard/internal/model"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|url>...",
		Short: "Import insight records",
		Long:  "Imports insight records from JSON arrays, CSV or XLSX files (or http(s) URLs). Invalid rows are skipped and reported.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sourceType, _ := cmd.Flags().GetString("type")
			batch, _ := cmd.Flags().GetInt("batch-size")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			job := model.ImportJob{BatchSize: batch, Timeout: timeout}
			for _, arg := range args {
				job.Sources = append(job.Sources, model.Source{Type: sourceType, Path: arg})
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			res, err := ingest.NewRunner(a.store, a.metrics, a.log).Run(ctx, job)
			cmd.Printf("Stored %d records, rejected %d (%s)\n", res.Stored, res.Rejected, res.Duration)
			for _, e := range res.Errors {
				cmd.Printf("  %s\n", e)
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("type", "", "source type: json, csv or xlsx (default: from file extension)")
	cmd.Flags().Int("batch-size", 0, "records per insert transaction (default 500)")
	cmd.Flags().Duration("timeout", 0, "abort the import after this long (default 5m)")
	return cmd
}

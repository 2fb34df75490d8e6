package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/ingest"
	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export insight records",
		Long:  "Writes the records matching the filter flags as JSON, CSV or XLSX. The output can be imported again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sel := model.Selection{}
			for _, f := range filter.Fields {
				if v, _ := cmd.Flags().GetString(string(f)); v != "" {
					sel[f] = v
				}
			}

			records, err := a.store.Find(context.Background(), query.Build(sel))
			if err != nil {
				return fmt.Errorf("fetch records: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("output")

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return ingest.Export(w, format, records)
		},
	}
	cmd.Flags().String("format", "json", "output format: json, csv or xlsx")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	for _, f := range filter.Fields {
		cmd.Flags().String(string(f), "", "filter on "+string(f))
	}
	return cmd
}

// Command insights serves the insights dashboard API and manages its data.
//
// @title Insights Dashboard API
// @version 1.0
// @description Filterable insight records, chart summaries and SVG charts.
// @BasePath /
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "insights",
		Short:        "Insights dashboard service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default: $CONFIG_PATH or config.yml)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}

	rootCmd.AddCommand(newServeCmd(), newImportCmd(), newExportCmd(), newMigrateCmd(), versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

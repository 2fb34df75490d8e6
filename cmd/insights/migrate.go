package main

import (
	"github.com/spf13/cobra"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if err := store.Migrate(a.cfg.Database, direction); err != nil {
				return err
			}
			a.log.Info("Migrations complete", logger.String("direction", direction))
			return nil
		},
	}
}

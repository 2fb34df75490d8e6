package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"insights-dashboard/internal/api"
	"insights-dashboard/internal/cache"
	"insights-dashboard/internal/ingest"
	"insights-dashboard/internal/insights"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/store"
	"insights-dashboard/pkg/router"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				a.cfg.Service.MigrateOnStart = true
			}
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				a.cfg.Service.Port = port
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, a)
		},
	}
	cmd.Flags().Bool("migrate", false, "apply database migrations before serving")
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	if a.cfg.Service.MigrateOnStart {
		if err := store.Migrate(a.cfg.Database, "up"); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.log.Info("Migrations applied")
	}

	summaryCache, err := cache.New(a.cfg.Cache)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer summaryCache.Close()

	svc := insights.NewService(a.store, summaryCache, a.cfg.Cache.TTL, a.metrics, a.log)

	deps := api.Deps{
		Data:    svc,
		Store:   a.store,
		Metrics: a.metrics.Handler(),
		Swagger: a.cfg.Service.Swagger,
		Log:     a.log,
	}
	if a.cfg.Service.ImportAPI {
		deps.Importer = ingest.NewRunner(a.store, a.metrics, a.log)
	}

	r := router.New(
		router.WithLogger(a.log),
		router.WithObserver(a.metrics.ObserveRequest),
		router.WithShutdownTimeout(a.cfg.Service.ShutdownTimeout),
		router.WithRequestTimeout(a.cfg.Service.RequestTimeout),
	)
	api.RegisterRoutes(r, deps)

	a.log.Info("Starting insights dashboard",
		logger.Int("port", a.cfg.Service.Port),
		logger.String("driver", a.cfg.Database.Driver),
		logger.String("cache", a.cfg.Cache.Driver),
	)
	return r.Start(ctx, fmt.Sprintf(":%d", a.cfg.Service.Port))
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"insights-dashboard/internal/config"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/metrics"
	"insights-dashboard/internal/store"
)

const defaultConfigPath = "config.yml"

// app holds what every command needs
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	store   *store.Store
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetConfigPath(defaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Service.Debug {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	log = log.With(logger.String("service", cfg.Service.Name))

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		store:   store.New(cfg.Database, log),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("Closing store", logger.Error(err))
	}
	_ = a.log.Sync()
}

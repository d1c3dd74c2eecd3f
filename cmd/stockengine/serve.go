package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stockengine/internal/bus"
	"stockengine/internal/cache"
	"stockengine/internal/config"
	"stockengine/internal/fetcher"
	"stockengine/internal/logger"
	"stockengine/internal/scheduler"
	"stockengine/internal/store"
	"stockengine/internal/universe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the analysis engine's scheduler loop until interrupted",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	st, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("open store failed", logger.ErrorField(err))
	}
	defer closeStore()

	c := cache.New(cache.Config{TTL: cfg.Cache.TTL(), CleanupInterval: cfg.Cache.CleanupInterval()})
	b := bus.New(32)
	f := fetcher.NewHTTPFetcher(cfg.Fetcher.BaseURL, cfg.Scheduler.HTTPTimeout())
	f.UserAgent = cfg.Fetcher.UserAgent
	f.RetryCfg = fetcher.RetryConfig{
		MaxRetries:  cfg.Scheduler.FetchRetryMax,
		BackoffBase: cfg.Scheduler.FetchBackoffBase(),
		JitterMax:   cfg.Scheduler.RequestJitterMax(),
	}

	roster := universe.Load(cfg.Universe.SymbolsFile)

	sch := scheduler.New(st, c, b, f, roster, scheduler.Config{
		AnalysisInterval: cfg.Scheduler.AnalysisInterval(),
		BaseDelay:        cfg.Scheduler.RequestBaseDelay(),
		JitterMax:        cfg.Scheduler.RequestJitterMax(),
		HistoryDays:      cfg.Scheduler.HistoryWindowDays,
		Workers:          cfg.Scheduler.Workers,
	}, appLogger)

	appLogger.Info("stockengine starting",
		logger.IntField("symbols", len(roster)),
		logger.IntField("workers", cfg.Scheduler.Workers))

	sch.Run(ctx, cfg.Scheduler.CycleInterval())

	appLogger.Info("stockengine stopped")
	return nil
}

func openStore(ctx context.Context, dbCfg config.Database) (store.AnalysisStore, func(), error) {
	switch dbCfg.Driver {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, dbCfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite":
		path := dbCfg.DSN
		if path == "" {
			path = "stockengine.db"
		}
		s, err := store.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s := store.NewMemoryStore()
		return s, func() {}, nil
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/guregu/null/v6"
	"github.com/spf13/cobra"

	"stockengine/internal/config"
	"stockengine/internal/fetcher"
	"stockengine/internal/kernel"
	"stockengine/internal/model"
)

var analyzeOnceCmd = &cobra.Command{
	Use:   "analyze-once [symbol]",
	Short: "Fetches one symbol's recent history and prints its analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeOnce,
}

func runAnalyzeOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f := fetcher.NewHTTPFetcher(cfg.Fetcher.BaseURL, cfg.Scheduler.HTTPTimeout())
	f.UserAgent = cfg.Fetcher.UserAgent
	f.RetryCfg = fetcher.RetryConfig{
		MaxRetries:  cfg.Scheduler.FetchRetryMax,
		BackoffBase: cfg.Scheduler.FetchBackoffBase(),
		JitterMax:   cfg.Scheduler.RequestJitterMax(),
	}

	symbol := model.Symbol(args[0])
	series, err := f.FetchDailyBars(cmd.Context(), symbol, cfg.Scheduler.HistoryWindowDays)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", symbol, err)
	}

	analysis := kernel.Analyze(series, null.Float{}, null.String{}, time.Now().UTC())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"portfolio-metrics/internal/config"
	"portfolio-metrics/internal/data"
	"portfolio-metrics/internal/logger"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "Path to YAML config (optional)")
		positions  = flag.String("positions", "", "Positions JSON file (default from config)")
		outputPath = flag.String("output", "data/snapshot.json", "Output file path")
		currency   = flag.String("currency", "", "Target currency (default from config)")
		days       = flag.Int("days", 0, "Fetch the last N days ending today instead of the configured range")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Overall deadline for all provider requests")
	)
	flag.Parse()

	cfg, err := config.LoadUnchecked(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *positions != "" {
		cfg.Calculation.PositionsFile = *positions
	}
	if *currency != "" {
		cfg.Calculation.TargetCurrency = strings.ToUpper(*currency)
	}
	if *days > 0 {
		end := time.Now().UTC()
		cfg.Calculation.EndDate = end.Format("2006-01-02")
		cfg.Calculation.StartDate = end.AddDate(0, 0, -*days).Format("2006-01-02")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: true})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Provider.APIKey == "" {
		log.Fatal().Msg("PERFORMATIV_API_KEY environment variable is required")
	}

	start, end, err := cfg.Calculation.Range()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid date range")
	}
	list, err := data.LoadPositions(cfg.Calculation.PositionsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Calculation.PositionsFile).Msg("failed to load positions")
	}

	client := data.NewClientFromConfig(cfg.Provider, cfg.Server.Env, log)

	log.Info().
		Int("positions", len(list)).
		Strs("pairs", data.CurrencyPairs(list, cfg.Calculation.TargetCurrency)).
		Int("instruments", len(data.Instruments(list))).
		Str("start", cfg.Calculation.StartDate).
		Str("end", cfg.Calculation.EndDate).
		Msg("fetching market data")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap, err := data.FetchSnapshot(ctx, client, list, start, end, cfg.Calculation.TargetCurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch snapshot")
	}
	if err := data.SaveSnapshot(*outputPath, snap); err != nil {
		log.Fatal().Err(err).Msg("failed to save snapshot")
	}

	log.Info().Str("path", *outputPath).Int("pairs", len(snap.FxRates)).Int("instruments", len(snap.Prices)).Msg("snapshot saved")
}

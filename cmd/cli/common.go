package main

import (
	"fmt"
	"strings"
	"time"

	"portfolio-metrics/internal/config"
	"portfolio-metrics/internal/data"
	"portfolio-metrics/internal/logger"
	"portfolio-metrics/internal/model"
	"portfolio-metrics/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// commonOptions are the persistent flags shared by every subcommand.
type commonOptions struct {
	configPath    string
	positionsPath string
	snapshotPath  string
	start         string
	end           string
	currency      string
	logLevel      string
}

func (o *commonOptions) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "Path to YAML config (optional)")
	f.StringVar(&o.positionsPath, "positions", "", "Positions JSON file (default from config)")
	f.StringVar(&o.snapshotPath, "snapshot", "", "Read market data from this snapshot instead of the provider")
	f.StringVar(&o.start, "start", "", "Start date YYYY-MM-DD (default from config)")
	f.StringVar(&o.end, "end", "", "End date YYYY-MM-DD, inclusive (default from config)")
	f.StringVar(&o.currency, "currency", "", "Target currency, e.g. USD (default from config)")
	f.StringVar(&o.logLevel, "log-level", "", "debug, info, warn, error (default from config)")
}

// runtime is everything a subcommand needs, resolved from config and flags.
type runtime struct {
	cfg       *config.Config
	log       zerolog.Logger
	client    *data.Client
	positions []model.Position
	start     time.Time
	end       time.Time
	currency  string
}

func (o *commonOptions) resolve() (*runtime, error) {
	cfg, err := config.LoadUnchecked(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.positionsPath != "" {
		cfg.Calculation.PositionsFile = o.positionsPath
	}
	if o.start != "" {
		cfg.Calculation.StartDate = o.start
	}
	if o.end != "" {
		cfg.Calculation.EndDate = o.end
	}
	if o.currency != "" {
		cfg.Calculation.TargetCurrency = strings.ToUpper(o.currency)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: true})
	logger.SetGlobalLogger(log)

	start, end, err := cfg.Calculation.Range()
	if err != nil {
		return nil, err
	}
	positions, err := data.LoadPositions(cfg.Calculation.PositionsFile)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		log:       log,
		client:    data.NewClientFromConfig(cfg.Provider, cfg.Server.Env, log),
		positions: positions,
		start:     start,
		end:       end,
		currency:  cfg.Calculation.TargetCurrency,
	}, nil
}

// source returns the snapshot when one was given, the provider client otherwise.
func (r *runtime) source(snapshotPath string) (data.Source, error) {
	if snapshotPath == "" {
		return r.client, nil
	}
	snap, err := data.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("path", snapshotPath).Time("updated_at", snap.UpdatedAt).Msg("using snapshot")
	return snap, nil
}

func (r *runtime) request() service.Request {
	return service.Request{
		Positions:      r.positions,
		StartDate:      r.start,
		EndDate:        r.end,
		TargetCurrency: r.currency,
	}
}

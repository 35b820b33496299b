package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-metrics/internal/api"
	"portfolio-metrics/internal/config"
	"portfolio-metrics/internal/data"
	"portfolio-metrics/internal/logger"
	"portfolio-metrics/internal/model"
	"portfolio-metrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)")
	snapshotPath := flag.String("snapshot", os.Getenv("SNAPSHOT_FILE"), "Serve market data from a snapshot instead of the provider")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	if cfg.Provider.APIKey == "" {
		log.Warn().Msg("PERFORMATIV_API_KEY is not set; provider requests will fail")
	}

	client := data.NewClientFromConfig(cfg.Provider, cfg.Server.Env, log)

	var source data.Source = client
	if *snapshotPath != "" {
		snap, err := data.LoadSnapshot(*snapshotPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *snapshotPath).Msg("failed to load snapshot")
		}
		log.Info().
			Str("path", *snapshotPath).
			Str("start", snap.StartDate).
			Str("end", snap.EndDate).
			Time("updated_at", snap.UpdatedAt).
			Msg("serving market data from snapshot")
		source = snap
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.New(source, client, log, reg)

	positionsFile := cfg.Calculation.PositionsFile
	positions := func() ([]model.Position, error) {
		return data.LoadPositions(positionsFile)
	}

	// Set up Gin router
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Dependencies{
		Calculator:     svc,
		Positions:      positions,
		Calculation:    cfg.Calculation,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Registry:       reg,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}


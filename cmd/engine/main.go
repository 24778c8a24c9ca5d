package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cryptonstudio/ladder-matching-engine/config"
	"github.com/cryptonstudio/ladder-matching-engine/logging"
	"github.com/cryptonstudio/ladder-matching-engine/matching"
	"github.com/cryptonstudio/ladder-matching-engine/report"
	"github.com/cryptonstudio/ladder-matching-engine/runner"
)

func main() {
	var configPath string
	var histogram bool
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.BoolVar(&histogram, "histogram", false, "Print order books histograms")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Production, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() // nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create matching engine
	engineConfig, err := cfg.EngineConfig()
	if err != nil {
		logger.Fatal("invalid engine config", zap.Error(err))
	}
	handler := &Matcher{}
	engine, err := matching.NewEngine(engineConfig, handler)
	if err != nil {
		logger.Fatal("failed to create engine", zap.Error(err))
	}

	options := []runner.Option{
		runner.WithBatchSize(cfg.Engine.BatchSize),
		runner.WithBufferSize(cfg.Engine.BufferSize),
	}
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		options = append(options, runner.WithMetrics(runner.NewMetrics(registry)))
		server := serveMetrics(cfg.Metrics.Address, registry, logger)
		defer server.Close()
	}

	// Open instruction streams, one file per instrument
	streams := make([]io.Reader, 0, len(cfg.Instruments))
	for _, name := range cfg.Names() {
		path := filepath.Join(cfg.DataDir, name+".dat")
		file, err := os.Open(path)
		if err != nil {
			logger.Fatal("failed to open instructions", zap.String("path", path), zap.Error(err))
		}
		defer file.Close()
		streams = append(streams, file)
	}

	// Run all instruments in parallel
	timeStart := time.Now()
	sharder := runner.NewSharder(engine, logger, options...)
	results, err := sharder.Run(ctx, cfg.Directory(), streams...)
	if err != nil {
		logger.Fatal("failed to process instructions", zap.Error(err))
	}
	timeElapsed := time.Since(timeStart)

	// Print statistics
	if err := report.WriteTable(os.Stdout, results); err != nil {
		logger.Fatal("failed to write report", zap.Error(err))
	}
	fmt.Println()
	handler.PrintStatistics(os.Stdout, timeElapsed)
	fmt.Println()
	fmt.Printf("Resting orders: %d\n", engine.Orders())
	fmt.Printf("Time elapsed: %f seconds\n", timeElapsed.Seconds())

	if histogram || cfg.Report.Histogram {
		err := report.WriteHistograms(os.Stdout, engine, report.HistogramOptions{
			BlockSize: cfg.Report.BlockSize,
			Color:     cfg.Report.Color,
		})
		if err != nil {
			logger.Fatal("failed to write histograms", zap.Error(err))
		}
	}
}

func serveMetrics(address string, registry *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("address", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return server
}

// Package main is the entry point for the deeparb trading core.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deeparb/deeparb/business/arbitrage"
	arbitrageApp "github.com/deeparb/deeparb/business/arbitrage/app"
	arbitrageDI "github.com/deeparb/deeparb/business/arbitrage/di"
	"github.com/deeparb/deeparb/business/ledger"
	"github.com/deeparb/deeparb/business/marketdata"
	"github.com/deeparb/deeparb/business/txcompose"
	"github.com/deeparb/deeparb/internal/apm"
	"github.com/deeparb/deeparb/internal/config"
	"github.com/deeparb/deeparb/internal/health"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/metrics"
	"github.com/deeparb/deeparb/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("deeparb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting deeparb",
		"version", version,
		"environment", cfg.App.Environment,
		"network", cfg.Network.Name,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(cfg.Telemetry.ServiceName, log,
			apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithPrometheus(),
		); err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}

		promServer := metrics.ServePrometheusMetrics(cfg.Telemetry.PrometheusPort)
		defer promServer.Shutdown(context.Background())
		log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthServer := health.NewServer(cfg.Telemetry.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
	}
	defer healthServer.Stop(ctx)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&txcompose.Module{},
		&marketdata.Module{}, // Provides order books to the scanner
		&ledger.Module{},
		&arbitrage.Module{}, // Depends on marketdata
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Start modules
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	scanner := arbitrageDI.GetScanner(mono.Services())
	return runScanner(ctx, scanner, cfg, log)
}

func runScanner(ctx context.Context, scanner *arbitrageApp.Scanner, cfg *config.Config, log logger.LoggerInterface) error {
	log.Info(ctx, "all modules started, beginning arbitrage scanning")

	err := scanner.Run(ctx, cfg.Scanner.Interval)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scanner stopped: %w", err)
	}

	log.Info(ctx, "shutting down")
	return nil
}

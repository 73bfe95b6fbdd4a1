package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock-calculator/internal/api"
	"stock-calculator/internal/interfaces"
	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/pricing/pricingobs"
	"stock-calculator/internal/store"
	"stock-calculator/internal/trace"
)

// initializeSystem loads .env and the config file, then sets up logging and tracing
func initializeSystem(cfgFile string, verbose bool) (*store.Config, error) {
	// .env is optional; its variables feed the config overrides below
	_ = godotenv.Load()

	cfg, err := store.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", cfgFile, err)
	}

	// LOG_* variables win over the config file
	logCfg := logger.ApplyEnv(logger.LogConfig{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		DetailedLogging: cfg.Log.Detailed,
		File:            cfg.Log.File,
		FileMaxSizeMB:   cfg.Log.FileMaxSizeMB,
		FileMaxAgeDays:  cfg.Log.FileMaxAgeDays,
	})
	if verbose {
		logCfg.Level = "DEBUG"
	}
	if err := logger.InitWithConfig(logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(cfg.Tracing.Enabled); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return cfg, nil
}

// initializeSolver returns the local solver, or a remote one when remoteURL is
// set, wrapped with observability middleware
func initializeSolver(ctx context.Context, cfg *store.Config, remoteURL string) interfaces.Solver {
	if remoteURL == "" {
		return pricingobs.Wrap(pricing.NewSolver())
	}

	logger.Info(ctx, "Using remote quote service", "url", remoteURL)
	client := api.NewClient(
		api.WithBaseURL(remoteURL),
		api.WithTimeout(time.Duration(cfg.Remote.TimeoutSeconds)*time.Second),
		api.WithHeader("User-Agent", "stock-calculator"),
		api.WithLogging(true),
	)
	retry := api.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Remote.MaxAttempts

	return pricingobs.Wrap(api.NewRemoteSolver(client, retry))
}

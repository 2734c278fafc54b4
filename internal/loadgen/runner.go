package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/qscore/pkg/logger"
)

// Run executes a complete load run.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting qscore load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("batches", cfg.Batches),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("verbose", cfg.Verbose))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	batches := generateBatches(ctx, cfg, newGenerator(cfg.Seed, time.Now()))

	if cfg.OutputFile != "" {
		if err := saveBatches(ctx, cfg.OutputFile, batches); err != nil {
			logger.Get().Warn(ctx, "failed to save batches to file", logger.Error(err))
		}
	}

	submitBatches(ctx, cfg, batches, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := verifyResults(stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}
	logger.Get().Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	resp, err := newHTTPClient(cfg.Timeout).Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveBatches writes the generated batches to a JSON file.
func saveBatches(ctx context.Context, filename string, batches [][]Record) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batches); err != nil {
		return fmt.Errorf("failed to write batches: %w", err)
	}

	logger.Get().Info(ctx, "batches saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, itemsPerSecond float64
	if stats.BatchesSubmitted > 0 {
		successRate = float64(stats.BatchesOK) / float64(stats.BatchesSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		itemsPerSecond = float64(stats.ItemsScored) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("itemsScored", stats.ItemsScored),
		logger.Int("suppressed", stats.Suppressed),
		logger.Int("belowFloor", stats.BelowFloor),
		logger.Int("hidden", stats.Hidden),
		logger.Int("diagnostics", stats.Diagnostics),
		logger.Int("orderViolations", stats.OrderViolations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("itemsPerSecond", itemsPerSecond))
}

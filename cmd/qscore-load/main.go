package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/qscore/internal/loadgen"
)

// Default configuration constants.
const (
	defaultBatches   = 200
	defaultBatchSize = 100
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultTimeout   = 30 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		batches    = flag.Int("batches", defaultBatches, "Number of scoring requests")
		size       = flag.Int("size", defaultBatchSize, "Records per request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		direction  = flag.String("dir", "desc", "Requested direction, desc or asc")
		seed       = flag.Uint64("seed", 0, "Generator seed, 0 for a time based seed")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the generated batches to this JSON file")
		logFile    = flag.String("log", "", "Log file (default: load_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every batch")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunLimit)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:    *baseURL,
		Batches:    *batches,
		BatchSize:  *size,
		Workers:    *workers,
		Direction:  *direction,
		Timeout:    *timeout,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if err := loadgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

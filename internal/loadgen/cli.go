package loadgen

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/qscore/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging logs to stdout and to logFile. An empty logFile gets a
// timestamped name.
func SetupLogging(logFile string) error {
	if logFile == "" {
		logFile = "load_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`qscore load tool
================

Posts generated batches of works to a running qscore service and checks that
every ranked response is ordered consistently.

Usage:
  qscore-load [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -batches int
        Number of scoring requests (default 200)
  -size int
        Records per request (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -dir string
        Requested direction, desc or asc (default "desc")
  -seed uint
        Generator seed, 0 for a time based seed
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated batches to this JSON file
  -log string
        Log file (default: load_log_TIMESTAMP.log)
  -verbose
        Log every batch
  -help
        Show this help message

Examples:
  qscore-load -batches 1000 -size 500 -workers 16
  qscore-load -dir asc -seed 42 -output batches.json
`)
}

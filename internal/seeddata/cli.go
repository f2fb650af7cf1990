package seeddata

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dinneroo/zonescore/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed data tool.
func ShowHelp() {
	os.Stdout.WriteString(`Zonescore Seed Data Tool
========================

A concurrent tool for seeding and verifying the zonescore scoring service.

Usage:
  go run cmd/seed-data/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -entities int
        Number of entities to generate per kind (default 1000)
  -top int
        Number of top entries to fetch per kind (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated records (default: generated_records_TIMESTAMP.json)
  -log string
        Log file for seed output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-data/main.go

  # Seed with custom parameters
  go run cmd/seed-data/main.go -entities 5000 -workers 16 -url http://localhost:8080

  # Seed with verbose output
  go run cmd/seed-data/main.go -verbose -entities 1000
`)
}

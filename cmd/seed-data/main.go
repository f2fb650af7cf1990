package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/dinneroo/zonescore/internal/seeddata"
)

// Default configuration constants.
const (
	defaultNumEntities = 1000
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultSeedTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEntities = flag.Int("entities", defaultNumEntities, "Number of entities to generate per kind")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch per kind")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated records (default: generated_records_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for seed output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeddata.ShowHelp()
		return
	}

	if err := seeddata.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	config := &seeddata.Config{
		BaseURL:     *baseURL,
		NumEntities: *numEntities,
		TopN:        *topN,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	if err := seeddata.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}

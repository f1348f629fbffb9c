package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/marquee/internal/smoke"
)

// Default configuration constants.
const (
	defaultBattles     = 500
	defaultMaxTeam     = 5
	defaultQuestions   = 10
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8080", "Base URL of the service")
		battles   = flag.Int("battles", defaultBattles, "Number of battles to submit")
		maxTeam   = flag.Int("team", defaultMaxTeam, "Largest team size")
		questions = flag.Int("questions", defaultQuestions, "Questions per trivia request")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed      = flag.String("seed", "smoke", "Seed for the determinism check")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	err := smoke.Run(ctx, &smoke.Config{
		BaseURL:   *baseURL,
		Battles:   *battles,
		MaxTeam:   *maxTeam,
		Questions: *questions,
		Workers:   *workers,
		Timeout:   *timeout,
		Seed:      *seed,
		Verbose:   *verbose,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

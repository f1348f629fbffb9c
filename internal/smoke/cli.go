package smoke

import (
	"fmt"
	"os"

	"github.com/okian/marquee/pkg/logger"
)

// SetupLogging initializes the global logger for the smoke tool.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Marquee Smoke Tool
==================

Exercises a running marquee service: concurrent battles, trivia sampling,
seeded determinism and game session recording.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string        Base URL of the service (default "http://localhost:8080")
  -battles int       Number of battles to submit (default 500)
  -team int          Largest team size (default 5)
  -questions int     Questions per trivia request (default 10)
  -workers int       Number of concurrent workers (default CPU cores * 2)
  -seed string       Seed for the determinism check (default "smoke")
  -timeout duration  HTTP request timeout (default 10s)
  -verbose           Enable verbose logging
  -help              Show this help message
`)
}

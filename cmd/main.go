package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/logomatch/internal/matcher"
	"github.com/desertthunder/logomatch/internal/shared"
	"github.com/desertthunder/logomatch/internal/ui"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	// -v belongs to --verbose on subcommands
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version", Local: true}

	app := &cli.Command{
		Name:     "logomatch",
		Usage:    "Fill in missing channel logos of an M3U playlist from a directory listing",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if msg, ok := diagnostic(err); ok {
			fmt.Fprintln(os.Stderr, ui.Styles.Error(msg))
			stop()
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// diagnostic returns the message printed for aborts that leave the playlist untouched.
func diagnostic(err error) (string, bool) {
	switch {
	case errors.Is(err, shared.ErrNoCandidates):
		return "No logos found! Ensure that the URL is correct and it returns a list of logo resources.", true
	case errors.Is(err, matcher.ErrInvalidThreshold):
		return "Ratio must be between 0 and 1.", true
	case errors.Is(err, shared.ErrInvalidConfig):
		return err.Error(), true
	default:
		return "", false
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/version"
	"github.com/urfave/cli/v3"
)

// scannerCLI holds what the Before hook loads for every subcommand.
type scannerCLI struct {
	cfg    *config.Config
	logger *logger.Logger
}

func (c *scannerCLI) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var (
		cfg *config.Config
		err error
	)

	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}

	if err != nil {
		return ctx, err
	}

	level := cfg.Log.Level
	if flag := cmd.String("log-level"); flag != "" {
		level = flag
	}

	// stdout carries command output; logs go to stderr
	log, err := logger.NewLogger(
		logger.WithLevel(level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths("stderr"),
	)
	if err != nil {
		return ctx, fmt.Errorf("failed to create logger: %w", err)
	}

	c.cfg = cfg
	c.logger = log

	return ctx, nil
}

func (c *scannerCLI) after(context.Context, *cli.Command) error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}

	return nil
}

func newCommand() *cli.Command {
	c := &scannerCLI{}

	return &cli.Command{
		Name:    "scanner",
		Usage:   "Scan option chains for strategy opportunities",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file (defaults to ./config/config.yaml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before: c.before,
		After:  c.after,
		Commands: []*cli.Command{
			c.serveCommand(),
			c.scanCommand(),
			c.strategiesCommand(),
			c.saveConfigCommand(),
			c.resultsCommand(),
			c.providersCommand(),
			c.tickersCommand(),
			c.recordCommand(),
			versionCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/api"
	"github.com/arvindk1/options-strategy-scanner/internal/provider"
	"github.com/arvindk1/options-strategy-scanner/internal/results"
	"github.com/arvindk1/options-strategy-scanner/internal/scanner"
	"github.com/arvindk1/options-strategy-scanner/internal/schedule"
	"github.com/arvindk1/options-strategy-scanner/internal/service"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/internal/version"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   fmt.Sprintf("Output format (%s, %s, %s)", formatTable, formatJSON, formatYAML),
		Value:   formatTable,
	}
}

func (c *scannerCLI) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the scan scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.http_addr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			runner := schedule.NewRunner(ctx, app, c.logger)
			if err := runner.AddAll(c.cfg.Schedules); err != nil {
				return err
			}

			runner.Start()
			defer runner.Stop()

			addr := c.cfg.Server.HTTPAddr
			if flag := cmd.String("addr"); flag != "" {
				addr = flag
			}

			c.logger.Info("Starting scanner",
				zap.String("version", version.GetVersion()),
				zap.String("config", c.cfg.String()))

			return api.NewServer(app.Service, c.cfg.Server, c.logger).ListenAndServe(ctx, addr)
		},
	}
}

func (c *scannerCLI) scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Run one scan and print the opportunities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Strategy id",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "tickers",
				Aliases: []string{"t"},
				Usage:   "Ticker symbols, comma separated or repeated",
			},
			&cli.BoolFlag{
				Name:  "universe",
				Usage: "Scan the configured ticker universe when no tickers are given",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider (defaults to providers.default)",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Evaluator parameter as `key=value`, repeatable",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Hide the progress bar",
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			params, err := parseParams(cmd.StringSlice("param"))
			if err != nil {
				return err
			}

			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			tickers := cmd.StringSlice("tickers")
			if cmd.Bool("universe") && len(tickers) == 0 {
				symbols, err := app.UniverseSymbols(ctx)
				if err != nil {
					return err
				}

				tickers = symbols
			}

			var onProgress scanner.ProgressFunc

			if !cmd.Bool("quiet") && cmd.String("output") == formatTable && len(tickers) > 0 {
				bar := progressbar.NewOptions(len(tickers),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("scanning"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				defer func() { _ = bar.Finish() }()

				onProgress = func(types.TickerResult) {
					_ = bar.Add(1)
				}
			}

			resp, err := app.RunScan(ctx, types.ScanRequest{
				StrategyID: cmd.String("strategy"),
				Tickers:    tickers,
				Params:     params,
				Provider:   cmd.String("provider"),
			}, onProgress)
			if err != nil {
				return err
			}

			return writeScan(os.Stdout, cmd.String("output"), resp)
		},
	}
}

func (c *scannerCLI) strategiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategies",
		Usage: "List the known strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "schema",
				Usage: "Print the parameter JSON schema of one strategy instead",
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if id := cmd.String("schema"); id != "" {
				schema, err := app.StrategySchema(id)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(os.Stdout, schema)

				return err
			}

			list, err := app.ListStrategies(ctx)
			if err != nil {
				return err
			}

			return writeStrategies(os.Stdout, cmd.String("output"), list)
		},
	}
}

func (c *scannerCLI) saveConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "save-config",
		Usage:     "Store a strategy configuration read from a JSON or YAML file",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New(errors.ErrCodeMissingParameter, "a configuration file is required")
			}

			cfg, err := readStrategyConfig(path)
			if err != nil {
				return err
			}

			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			desc, err := app.SaveConfig(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%s %s (%s)\n", OKStyle.Render("saved"), desc.ID, desc.Name)

			return nil
		},
	}
}

func (c *scannerCLI) resultsCommand() *cli.Command {
	return &cli.Command{
		Name:      "results",
		Usage:     "Print the latest saved scan of a strategy",
		ArgsUsage: "<strategy-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "min-score",
				Usage: "Only keep opportunities scoring at least this much",
			},
			&cli.StringFlag{
				Name:  "max-risk",
				Usage: "Only keep opportunities risking at most this much",
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return errors.New(errors.ErrCodeMissingParameter, "a strategy id is required")
			}

			filter, err := results.ParseFilter(cmd.String("min-score"), cmd.String("max-risk"))
			if err != nil {
				return err
			}

			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.LatestResults(ctx, id, filter)
			if err != nil {
				return err
			}

			return writeScan(os.Stdout, cmd.String("output"), resp)
		},
	}
}

func (c *scannerCLI) providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the registered data providers",
		Flags: []cli.Flag{outputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			return writeProviders(os.Stdout, cmd.String("output"), app.Providers())
		},
	}
}

func (c *scannerCLI) tickersCommand() *cli.Command {
	return &cli.Command{
		Name:  "tickers",
		Usage: "List the ticker universe",
		Flags: []cli.Flag{outputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := service.Build(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			tickers, err := app.Tickers(ctx)
			if err != nil {
				return err
			}

			return writeTickers(os.Stdout, cmd.String("output"), tickers)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the engine version",
		Action: func(context.Context, *cli.Command) error {
			fmt.Fprintln(os.Stdout, version.GetVersion())

			return nil
		},
	}
}

// recordCommand snapshots live chains into the fixture directory so they can
// be replayed later with the fixture provider.
func (c *scannerCLI) recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "Fetch option chains and save them as fixtures",
		ArgsUsage: "<ticker>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider to record from",
				Value:   provider.YFinanceName,
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Fixture directory, defaults to providers.fixtures_dir",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tickers := cmd.Args().Slice()
			if len(tickers) == 0 {
				return errors.New(errors.ErrCodeMissingParameter, "at least one ticker is required")
			}

			dir := c.cfg.Providers.FixturesDir
			if flag := cmd.String("dir"); flag != "" {
				dir = flag
			}

			registry, err := provider.NewDefaultRegistry(c.cfg.Providers, c.logger)
			if err != nil {
				return err
			}

			sel, err := registry.Resolve(cmd.String("provider"))
			if err != nil {
				return err
			}

			failed := recordChains(ctx, sel.Provider, dir, tickers, c.cfg.Providers.FetchTimeout, c.logger.Logger)
			if failed > 0 {
				return fmt.Errorf("%d of %d tickers could not be recorded", failed, len(tickers))
			}

			fmt.Fprintf(os.Stdout, "%s %d chains from %s into %s\n", OKStyle.Render("recorded"), len(tickers), sel.Name, dir)

			return nil
		},
	}
}

// recordChains writes one fixture per ticker and returns how many failed.
func recordChains(ctx context.Context, p provider.Provider, dir string, tickers []string, timeout time.Duration, log *zap.Logger) int {
	bar := progressbar.NewOptions(len(tickers),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("recording"),
		progressbar.OptionShowCount(),
	)
	defer func() { _ = bar.Finish() }()

	failed := 0

	for _, ticker := range tickers {
		ticker = types.ProviderSymbol(ticker)

		if err := recordChain(ctx, p, dir, ticker, timeout); err != nil {
			log.Error("Failed to record chain", zap.String("ticker", ticker), zap.Error(err))

			failed++
		}

		_ = bar.Add(1)
	}

	return failed
}

func recordChain(ctx context.Context, p provider.Provider, dir, ticker string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	chain, err := p.FetchOptionChain(ctx, ticker)
	if err != nil {
		return err
	}

	return provider.WriteFixture(dir, chain)
}

// parseParams turns key=value pairs into evaluator parameters.
func parseParams(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]float64, len(pairs))

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "param %q must look like key=value", pair)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "param %s must be a number", key)
		}

		params[key] = value
	}

	return params, nil
}

// readStrategyConfig decodes a strategy configuration file by extension.
func readStrategyConfig(path string) (types.StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to read %s", path)
	}

	var cfg types.StrategyConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported config file %s, use .json or .yaml", path)
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to parse %s", path)
	}

	if cfg == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%s is empty", path)
	}

	return cfg, nil
}

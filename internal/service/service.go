// Package service is the application layer shared by the HTTP API, the CLI
// and the scheduler. It wires the scanner to persistence and notifications.
package service

import (
	"context"
	"sort"

	"github.com/arvindk1/options-strategy-scanner/internal/descriptor"
	"github.com/arvindk1/options-strategy-scanner/internal/events"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/provider"
	"github.com/arvindk1/options-strategy-scanner/internal/results"
	"github.com/arvindk1/options-strategy-scanner/internal/scanner"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/internal/universe"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"go.uber.org/zap"
)

// Dependencies are the components a Service is built from. Publisher and
// Universe may be nil.
type Dependencies struct {
	Descriptors *descriptor.Store
	Plugins     strategy.Registry
	Providers   *provider.Registry
	Scanner     *scanner.Scanner
	Results     *results.Store
	Universe    universe.Source
	Publisher   events.Publisher
	Logger      *logger.Logger
}

type Service struct {
	descriptors *descriptor.Store
	plugins     strategy.Registry
	providers   *provider.Registry
	scanner     *scanner.Scanner
	results     *results.Store
	universe    universe.Source
	publisher   events.Publisher
	logger      *logger.Logger
}

func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}

	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}

	return &Service{
		descriptors: deps.Descriptors,
		plugins:     deps.Plugins,
		providers:   deps.Providers,
		scanner:     deps.Scanner,
		results:     deps.Results,
		universe:    deps.Universe,
		publisher:   deps.Publisher,
		logger:      deps.Logger,
	}
}

// ListStrategies returns every known strategy descriptor sorted by id.
func (s *Service) ListStrategies(ctx context.Context) ([]types.StrategyDescriptor, error) {
	return s.descriptors.List(ctx)
}

// RunScan scans, saves the response as the strategy's latest snapshot and
// announces it. A failed announcement is logged and does not fail the scan.
func (s *Service) RunScan(ctx context.Context, req types.ScanRequest, onProgress scanner.ProgressFunc) (types.ScanResponse, error) {
	resp, err := s.scanner.Scan(ctx, req, onProgress)
	if err != nil {
		if errors.IsResolutionError(err) {
			s.logger.Warn("Strategy could not be resolved",
				zap.String("strategy", req.StrategyID),
				zap.Int("code", int(errors.GetCode(err))),
				zap.Error(err))
		}

		return types.ScanResponse{}, err
	}

	if err := s.results.Save(ctx, resp); err != nil {
		return types.ScanResponse{}, err
	}

	if err := s.publisher.PublishScanCompleted(ctx, resp); err != nil {
		s.logger.Warn("Failed to publish scan event",
			zap.String("scan_id", resp.ScanID),
			zap.String("strategy", resp.StrategyID),
			zap.Error(err))
	}

	return resp, nil
}

// SaveConfig stores cfg under its id. Saved configurations take precedence
// over files with the same id.
func (s *Service) SaveConfig(ctx context.Context, cfg types.StrategyConfig) (types.StrategyDescriptor, error) {
	return s.descriptors.Save(ctx, cfg)
}

// LatestResults returns the last saved scan for strategyID narrowed by
// filter. It fails with ErrCodeDataNotFound if the strategy was never scanned.
func (s *Service) LatestResults(ctx context.Context, strategyID string, filter results.Filter) (types.ScanResponse, error) {
	latest, err := s.results.Latest(ctx, strategyID)
	if err != nil {
		return types.ScanResponse{}, err
	}

	if latest.IsNone() {
		return types.ScanResponse{}, errors.Newf(errors.ErrCodeDataNotFound, "no results for strategy %s", strategyID)
	}

	return filter.Apply(latest.Unwrap()), nil
}

// ScannedStrategies lists the ids that have a saved snapshot, sorted.
func (s *Service) ScannedStrategies(ctx context.Context) ([]string, error) {
	ids, err := s.results.StrategyIDs(ctx)
	if err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []string{}
	}

	sort.Strings(ids)

	return ids, nil
}

// StrategySchema returns the JSON schema of a plugin's parameters.
func (s *Service) StrategySchema(strategyID string) (string, error) {
	plugin, err := s.plugins.Lookup(strategyID)
	if err != nil {
		return "", err
	}

	schema, err := plugin.Schema()
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to build schema for %s", strategyID)
	}

	return schema, nil
}

// Providers lists the registered chain providers.
func (s *Service) Providers() []provider.Info {
	return s.providers.List()
}

// Tickers returns the scannable ticker universe.
func (s *Service) Tickers(ctx context.Context) ([]types.TickerInfo, error) {
	if s.universe == nil {
		return nil, errors.New(errors.ErrCodeUniverseUnavailable, "no ticker universe configured")
	}

	return s.universe.Tickers(ctx)
}

// UniverseSymbols returns only the symbols of the ticker universe.
func (s *Service) UniverseSymbols(ctx context.Context) ([]string, error) {
	if s.universe == nil {
		return nil, errors.New(errors.ErrCodeUniverseUnavailable, "no ticker universe configured")
	}

	return universe.Symbols(ctx, s.universe)
}

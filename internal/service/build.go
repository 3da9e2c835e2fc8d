package service

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/descriptor"
	"github.com/arvindk1/options-strategy-scanner/internal/events"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/provider"
	"github.com/arvindk1/options-strategy-scanner/internal/resolver"
	"github.com/arvindk1/options-strategy-scanner/internal/results"
	"github.com/arvindk1/options-strategy-scanner/internal/scanner"
	"github.com/arvindk1/options-strategy-scanner/internal/store"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy/straddle"
	"github.com/arvindk1/options-strategy-scanner/internal/universe"
)

// BuiltinPlugins is the static table of compiled-in strategies.
func BuiltinPlugins() []strategy.Plugin {
	return []strategy.Plugin{
		straddle.Plugin(),
	}
}

// NewPluginRegistry registers plugins in a fresh registry.
func NewPluginRegistry(plugins ...strategy.Plugin) (*strategy.RegistryV1, error) {
	registry := strategy.NewRegistry()

	for _, plugin := range plugins {
		if err := registry.Register(plugin); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// App is a Service together with the resources it owns.
type App struct {
	*Service
	docs      store.DocumentStore
	publisher events.Publisher
}

// Close releases the document store and the event publisher.
func (a *App) Close() error {
	pubErr := a.publisher.Close()

	if err := a.docs.Close(); err != nil {
		return err
	}

	return pubErr
}

// Build wires a Service from cfg.
func Build(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	docs, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}

	plugins, err := NewPluginRegistry(BuiltinPlugins()...)
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	providers, err := provider.NewDefaultRegistry(cfg.Providers, log)
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	src, err := universe.NewSource(cfg.Universe, cfg.Providers.PolygonAPIKey, log)
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	publisher, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		_ = docs.Close()

		return nil, err
	}

	descriptors := descriptor.NewStore(cfg.Strategies.Dir, docs, log)

	scan := scanner.NewScanner(
		resolver.NewResolver(descriptors, plugins, log),
		providers,
		scanner.WithMaxConcurrency(cfg.Scan.MaxConcurrency),
		scanner.WithFetchTimeout(cfg.Providers.FetchTimeout),
		scanner.WithLogger(log),
	)

	svc := NewService(Dependencies{
		Descriptors: descriptors,
		Plugins:     plugins,
		Providers:   providers,
		Scanner:     scan,
		Results:     results.NewStore(docs, log),
		Universe:    src,
		Publisher:   publisher,
		Logger:      log,
	})

	return &App{Service: svc, docs: docs, publisher: publisher}, nil
}

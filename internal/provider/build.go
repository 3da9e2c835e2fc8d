package provider

import (
	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
)

// NewDefaultRegistry registers the yfinance, polygon and fixture backends
// with cfg.Default as the fallback.
func NewDefaultRegistry(cfg config.ProvidersConfig, log *logger.Logger) (*Registry, error) {
	registry := NewRegistry(cfg.Default, log)

	if err := registry.Register(YFinanceName, "Yahoo Finance option chains, every listed expiry", NewYFinance(cfg.YFinanceBaseURL, log)); err != nil {
		return nil, err
	}

	if err := registry.Register(PolygonName, "Polygon.io (option chains not supported)", NewPolygon()); err != nil {
		return nil, err
	}

	if err := registry.Register(FixtureName, "Recorded chains from "+cfg.FixturesDir, NewFixture(cfg.FixturesDir)); err != nil {
		return nil, err
	}

	if _, err := registry.Resolve(""); err != nil {
		return nil, err
	}

	return registry, nil
}

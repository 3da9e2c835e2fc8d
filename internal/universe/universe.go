// Package universe lists the tickers an operator can scan.
package universe

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
)

// Source returns the ticker universe.
type Source interface {
	Tickers(ctx context.Context) ([]types.TickerInfo, error)
}

// FileSource reads a JSON array of {symbol, name, category} objects.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Tickers returns the file's entries in file order with symbols upper-cased.
// Entries without a symbol are skipped.
func (f *FileSource) Tickers(ctx context.Context) ([]types.TickerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUniverseUnavailable, "ticker universe", err)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeUniverseUnavailable, err, "failed to read ticker file %s", f.path)
	}

	var entries []types.TickerInfo
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeUniverseUnavailable, err, "malformed ticker file %s", f.path)
	}

	tickers := make([]types.TickerInfo, 0, len(entries))

	for _, entry := range entries {
		entry.Symbol = strings.ToUpper(strings.TrimSpace(entry.Symbol))
		if entry.Symbol == "" {
			continue
		}

		tickers = append(tickers, entry)
	}

	return tickers, nil
}

// Symbols returns only the symbols of src's universe.
func Symbols(ctx context.Context, src Source) ([]string, error) {
	tickers, err := src.Tickers(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = t.Symbol
	}

	return symbols, nil
}

// NewSource builds the universe source selected by cfg.Source.
func NewSource(cfg config.UniverseConfig, apiKey string, log *logger.Logger) (Source, error) {
	switch cfg.Source {
	case "", "file":
		return NewFileSource(cfg.File), nil
	case "polygon":
		return NewPolygonSource(apiKey, cfg.Limit, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown universe source: %s", cfg.Source)
	}
}

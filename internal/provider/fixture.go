package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
)

const FixtureName = "fixture"

// Fixture serves option chains from <dir>/<TICKER>.json files. It lets the
// scanner run offline.
type Fixture struct {
	dir string
}

func NewFixture(dir string) *Fixture {
	return &Fixture{dir: dir}
}

func (f *Fixture) FetchOptionChain(ctx context.Context, ticker string) (types.OptionChain, error) {
	if err := ctx.Err(); err != nil {
		return types.OptionChain{}, errors.Wrapf(errors.ErrCodeProviderTimeout, err, "fixture %s", ticker)
	}

	symbol, ok := fixtureSymbol(ticker)
	if !ok {
		return types.OptionChain{}, errors.Newf(errors.ErrCodeProviderFetchFailed, "invalid ticker %q", ticker)
	}

	path := filepath.Join(f.dir, symbol+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return types.OptionChain{}, errors.Wrapf(errors.ErrCodeProviderFetchFailed, err, "no fixture for %s", symbol)
	}

	var chain types.OptionChain
	if err := json.Unmarshal(data, &chain); err != nil {
		return types.OptionChain{}, errors.Wrapf(errors.ErrCodeProviderFetchFailed, err, "malformed fixture %s", path)
	}

	if chain.Ticker == "" {
		chain.Ticker = ticker
	}

	return chain, nil
}

// WriteFixture stores chain as the fixture for its ticker.
func WriteFixture(dir string, chain types.OptionChain) error {
	symbol, ok := fixtureSymbol(chain.Ticker)
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid ticker %q", chain.Ticker)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, symbol+".json"), data, 0o644)
}

// fixtureSymbol maps ticker to its file name stem. Symbols that could leave
// the fixtures directory are refused.
func fixtureSymbol(ticker string) (string, bool) {
	symbol := types.ProviderSymbol(ticker)
	if symbol == "" || strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		return "", false
	}

	return symbol, true
}

package universe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type fakeIterator struct {
	items []models.Ticker
	index int
	err   error
}

func (f *fakeIterator) Next() bool {
	if f.index < len(f.items) {
		f.index++

		return true
	}

	return false
}

func (f *fakeIterator) Item() models.Ticker {
	return f.items[f.index-1]
}

func (f *fakeIterator) Err() error {
	return f.err
}

type fakeLister struct {
	iter   *fakeIterator
	params *models.ListTickersParams
}

func (f *fakeLister) ListTickers(_ context.Context, params *models.ListTickersParams) TickerIterator {
	f.params = params

	return f.iter
}

type UniverseTestSuite struct {
	suite.Suite
}

func TestUniverseSuite(t *testing.T) {
	suite.Run(t, new(UniverseTestSuite))
}

func (suite *UniverseTestSuite) writeFile(content string) string {
	path := filepath.Join(suite.T().TempDir(), "tickers.json")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *UniverseTestSuite) TestFileSource() {
	path := suite.writeFile(`[
		{"symbol":"aapl","name":"Apple Inc.","category":"Tech"},
		{"symbol":"","name":"blank"},
		{"symbol":" spy ","name":"SPDR S&P 500","category":"ETF"}
	]`)

	tickers, err := NewFileSource(path).Tickers(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]types.TickerInfo{
		{Symbol: "AAPL", Name: "Apple Inc.", Category: "Tech"},
		{Symbol: "SPY", Name: "SPDR S&P 500", Category: "ETF"},
	}, tickers)

	symbols, err := Symbols(context.Background(), NewFileSource(path))
	suite.Require().NoError(err)
	suite.Equal([]string{"AAPL", "SPY"}, symbols)
}

func (suite *UniverseTestSuite) TestFileSourceErrors() {
	_, err := NewFileSource(filepath.Join(suite.T().TempDir(), "missing.json")).Tickers(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeUniverseUnavailable))

	_, err = NewFileSource(suite.writeFile(`{"symbol":"AAPL"}`)).Tickers(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeUniverseUnavailable))
}

func (suite *UniverseTestSuite) TestPolygonSource() {
	lister := &fakeLister{iter: &fakeIterator{items: []models.Ticker{
		{Ticker: "AAPL", Name: "Apple Inc.", Type: "CS"},
		{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Type: "ETF"},
		{Ticker: "MSFT", Name: "Microsoft Corp", Type: "CS"},
	}}}

	tickers, err := NewPolygonSourceWithLister(lister, 2, nil).Tickers(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]types.TickerInfo{
		{Symbol: "AAPL", Name: "Apple Inc.", Category: "CS"},
		{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust", Category: "ETF"},
	}, tickers)

	suite.Require().NotNil(lister.params)
	suite.Require().NotNil(lister.params.Limit)
	suite.Equal(2, *lister.params.Limit)
	suite.Require().NotNil(lister.params.Active)
	suite.True(*lister.params.Active)
}

func (suite *UniverseTestSuite) TestPolygonSourceError() {
	lister := &fakeLister{iter: &fakeIterator{err: fmt.Errorf("401 unauthorized")}}

	_, err := NewPolygonSourceWithLister(lister, 0, nil).Tickers(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeUniverseUnavailable))
	suite.Contains(err.Error(), "401")
}

func (suite *UniverseTestSuite) TestNewSource() {
	src, err := NewSource(config.UniverseConfig{Source: "file", File: "tickers.json"}, "", nil)
	suite.Require().NoError(err)
	suite.IsType(&FileSource{}, src)

	src, err = NewSource(config.UniverseConfig{Source: "polygon", Limit: 10}, "key", nil)
	suite.Require().NoError(err)
	suite.IsType(&PolygonSource{}, src)

	_, err = NewSource(config.UniverseConfig{Source: "polygon"}, "", nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewSource(config.UniverseConfig{Source: "nasdaq"}, "", nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

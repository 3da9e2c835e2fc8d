package universe

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"
)

const polygonPageSize = 1000

// TickerIterator walks a paginated ticker listing.
type TickerIterator interface {
	Next() bool
	Item() models.Ticker
	Err() error
}

// TickerLister is the part of the Polygon reference API the source needs.
type TickerLister interface {
	ListTickers(ctx context.Context, params *models.ListTickersParams) TickerIterator
}

type polygonClient struct {
	client *polygon.Client
}

func (c polygonClient) ListTickers(ctx context.Context, params *models.ListTickersParams) TickerIterator {
	return c.client.ListTickers(ctx, params)
}

// PolygonSource lists active US stock tickers from Polygon's reference data.
// The ticker type (CS, ETF, ADRC...) becomes the category.
type PolygonSource struct {
	lister TickerLister
	limit  int
	logger *logger.Logger
}

func NewPolygonSource(apiKey string, limit int, log *logger.Logger) (*PolygonSource, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon api key is required for the polygon universe")
	}

	return NewPolygonSourceWithLister(polygonClient{client: polygon.New(apiKey)}, limit, log), nil
}

// NewPolygonSourceWithLister uses lister instead of a live client. A limit
// of zero or less means no limit.
func NewPolygonSourceWithLister(lister TickerLister, limit int, log *logger.Logger) *PolygonSource {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonSource{lister: lister, limit: limit, logger: log}
}

func (p *PolygonSource) Tickers(ctx context.Context) ([]types.TickerInfo, error) {
	pageSize := polygonPageSize
	if p.limit > 0 && p.limit < pageSize {
		pageSize = p.limit
	}

	params := models.ListTickersParams{}.
		WithMarket(models.AssetStocks).
		WithActive(true).
		WithLimit(pageSize)

	iter := p.lister.ListTickers(ctx, params)

	tickers := []types.TickerInfo{}

	for iter.Next() {
		item := iter.Item()
		tickers = append(tickers, types.TickerInfo{
			Symbol:   item.Ticker,
			Name:     item.Name,
			Category: item.Type,
		})

		if p.limit > 0 && len(tickers) >= p.limit {
			break
		}
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUniverseUnavailable, "failed to list polygon tickers", err)
	}

	p.logger.Debug("Loaded polygon ticker universe", zap.Int("count", len(tickers)))

	return tickers, nil
}

package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	YFinanceName       = "yfinance"
	yfinanceOptionsURL = "/v7/finance/options/{ticker}"
	yfinanceUserAgent  = "Mozilla/5.0 (compatible; options-strategy-scanner)"
)

// yfOptionsResponse wraps the options API response. Contracts are kept as
// raw maps so every field Yahoo returns reaches the evaluator.
type yfOptionsResponse struct {
	OptionChain struct {
		Result []yfOptionsResult `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"optionChain"`
}

type yfOptionsResult struct {
	UnderlyingSymbol string          `json:"underlyingSymbol"`
	ExpirationDates  []int64         `json:"expirationDates"`
	Options          []yfOptionChain `json:"options"`
}

type yfOptionChain struct {
	ExpirationDate int64            `json:"expirationDate"`
	Calls          []types.Contract `json:"calls"`
	Puts           []types.Contract `json:"puts"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YFinance fetches option chains from the Yahoo Finance options endpoint,
// one request per expiry.
type YFinance struct {
	client *resty.Client
	logger *logger.Logger
}

// YFinanceOption customizes the client.
type YFinanceOption func(*resty.Client)

// WithRetries sets how often a 429 or 5xx response is retried.
func WithRetries(count int, wait time.Duration) YFinanceOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(4 * wait)
	}
}

// NewYFinance creates a client against baseURL, e.g. https://query2.finance.yahoo.com.
func NewYFinance(baseURL string, log *logger.Logger, opts ...YFinanceOption) *YFinance {
	if log == nil {
		log = logger.NewNopLogger()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", yfinanceUserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil {
				return false
			}

			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		})

	for _, opt := range opts {
		opt(client)
	}

	return &YFinance{client: client, logger: log}
}

// FetchOptionChain returns every listed expiry of ticker in the order Yahoo
// lists them.
func (y *YFinance) FetchOptionChain(ctx context.Context, ticker string) (types.OptionChain, error) {
	first, err := y.fetch(ctx, ticker, 0)
	if err != nil {
		return types.OptionChain{}, err
	}

	chain := types.OptionChain{
		Ticker: ticker,
		Chains: make([]types.ExpiryGroup, 0, len(first.ExpirationDates)),
	}

	fetched := make(map[int64]yfOptionChain, len(first.ExpirationDates))
	for _, opt := range first.Options {
		fetched[opt.ExpirationDate] = opt
	}

	for _, expiry := range first.ExpirationDates {
		opt, ok := fetched[expiry]
		if !ok {
			result, err := y.fetch(ctx, ticker, expiry)
			if err != nil {
				return types.OptionChain{}, err
			}

			if len(result.Options) == 0 {
				y.logger.Debug("Expiry returned no contracts", zap.String("ticker", ticker), zap.Int64("expiry", expiry))

				continue
			}

			opt = result.Options[0]
		}

		chain.Chains = append(chain.Chains, types.ExpiryGroup{
			Expiry: time.Unix(expiry, 0).UTC().Format("2006-01-02"),
			Calls:  nonNil(opt.Calls),
			Puts:   nonNil(opt.Puts),
		})
	}

	return chain, nil
}

func (y *YFinance) fetch(ctx context.Context, ticker string, expiry int64) (yfOptionsResult, error) {
	var out yfOptionsResponse

	req := y.client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetResult(&out)

	if expiry > 0 {
		req.SetQueryParam("date", strconv.FormatInt(expiry, 10))
	}

	resp, err := req.Get(yfinanceOptionsURL)
	if err != nil {
		if ctx.Err() != nil {
			return yfOptionsResult{}, errors.Wrapf(errors.ErrCodeProviderTimeout, ctx.Err(), "yfinance options %s", ticker)
		}

		return yfOptionsResult{}, errors.Wrapf(errors.ErrCodeProviderFetchFailed, err, "yfinance options %s", ticker)
	}

	if resp.IsError() {
		return yfOptionsResult{}, errors.Newf(errors.ErrCodeProviderFetchFailed, "yfinance options %s: HTTP %d", ticker, resp.StatusCode())
	}

	if out.OptionChain.Error != nil {
		return yfOptionsResult{}, errors.Newf(errors.ErrCodeProviderFetchFailed, "yfinance options error: %s", out.OptionChain.Error.Description)
	}

	if len(out.OptionChain.Result) == 0 {
		return yfOptionsResult{}, errors.Newf(errors.ErrCodeProviderFetchFailed, "no options data for %s", ticker)
	}

	return out.OptionChain.Result[0], nil
}

func nonNil(contracts []types.Contract) []types.Contract {
	if contracts == nil {
		return []types.Contract{}
	}

	return contracts
}

func (y *YFinance) String() string {
	return fmt.Sprintf("yfinance(%s)", y.client.BaseURL)
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const (
	expiryNov = int64(1795132800) // 2026-11-20
	expiryDec = int64(1797552000) // 2026-12-18
)

const firstPage = `{"optionChain":{"result":[{
	"underlyingSymbol":"AAPL",
	"expirationDates":[1795132800,1797552000],
	"options":[{"expirationDate":1795132800,
		"calls":[{"contractSymbol":"AAPL261120C00190000","strike":190,"bid":4.1,"ask":4.3,"openInterest":1200,"impliedVolatility":0.31}],
		"puts":[{"contractSymbol":"AAPL261120P00190000","strike":190,"bid":3.9,"ask":4.0}]}]
}],"error":null}}`

const secondPage = `{"optionChain":{"result":[{
	"underlyingSymbol":"AAPL",
	"expirationDates":[1795132800,1797552000],
	"options":[{"expirationDate":1797552000,
		"calls":[{"contractSymbol":"AAPL261218C00200000","strike":200,"bid":5.5,"ask":5.8}]}]
}],"error":null}}`

type YFinanceTestSuite struct {
	suite.Suite
}

func TestYFinanceSuite(t *testing.T) {
	suite.Run(t, new(YFinanceTestSuite))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (suite *YFinanceTestSuite) TestFetchAllExpiries() {
	var dates []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("/v7/finance/options/AAPL", r.URL.Path)
		suite.NotEmpty(r.Header.Get("User-Agent"))

		date := r.URL.Query().Get("date")
		dates = append(dates, date)

		switch date {
		case "":
			writeJSON(w, http.StatusOK, firstPage)
		case "1797552000":
			writeJSON(w, http.StatusOK, secondPage)
		default:
			writeJSON(w, http.StatusNotFound, `{}`)
		}
	}))
	defer server.Close()

	chain, err := NewYFinance(server.URL, nil).FetchOptionChain(context.Background(), "AAPL")
	suite.Require().NoError(err)

	suite.Equal([]string{"", "1797552000"}, dates)
	suite.Equal("AAPL", chain.Ticker)
	suite.Require().Len(chain.Chains, 2)

	suite.Equal("2026-11-20", chain.Chains[0].Expiry)
	suite.Require().Len(chain.Chains[0].Calls, 1)
	suite.Equal("AAPL261120C00190000", chain.Chains[0].Calls[0]["contractSymbol"])
	suite.Equal(0.31, chain.Chains[0].Calls[0]["impliedVolatility"])
	suite.Len(chain.Chains[0].Puts, 1)

	suite.Equal("2026-12-18", chain.Chains[1].Expiry)
	suite.Len(chain.Chains[1].Calls, 1)
	suite.NotNil(chain.Chains[1].Puts)
	suite.Empty(chain.Chains[1].Puts)
}

func (suite *YFinanceTestSuite) TestNoExpiriesIsEmptyChain() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"optionChain":{"result":[{"underlyingSymbol":"BRK-A","expirationDates":[],"options":[]}],"error":null}}`)
	}))
	defer server.Close()

	chain, err := NewYFinance(server.URL, nil).FetchOptionChain(context.Background(), "BRK-A")
	suite.Require().NoError(err)
	suite.Empty(chain.Chains)
}

func (suite *YFinanceTestSuite) TestUnknownTicker() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"optionChain":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer server.Close()

	_, err := NewYFinance(server.URL, nil).FetchOptionChain(context.Background(), "ZZZZ")
	suite.True(errors.HasCode(err, errors.ErrCodeProviderFetchFailed))
	suite.Contains(err.Error(), "404")
}

func (suite *YFinanceTestSuite) TestErrorPayload() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"optionChain":{"result":[],"error":{"code":"Bad","description":"invalid symbol"}}}`)
	}))
	defer server.Close()

	_, err := NewYFinance(server.URL, nil).FetchOptionChain(context.Background(), "???")
	suite.True(errors.HasCode(err, errors.ErrCodeProviderFetchFailed))
	suite.Contains(err.Error(), "invalid symbol")
}

func (suite *YFinanceTestSuite) TestEmptyResult() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"optionChain":{"result":[],"error":null}}`)
	}))
	defer server.Close()

	_, err := NewYFinance(server.URL, nil).FetchOptionChain(context.Background(), "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeProviderFetchFailed))
}

func (suite *YFinanceTestSuite) TestServerErrorIsRetried() {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, `{}`)

			return
		}

		writeJSON(w, http.StatusOK, `{"optionChain":{"result":[{"underlyingSymbol":"AAPL","expirationDates":[]}],"error":null}}`)
	}))
	defer server.Close()

	_, err := NewYFinance(server.URL, nil, WithRetries(2, time.Millisecond)).FetchOptionChain(context.Background(), "AAPL")
	suite.NoError(err)
	suite.Equal(int32(2), hits.Load())
}

func (suite *YFinanceTestSuite) TestServerErrorWithoutRetries() {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))
	defer server.Close()

	_, err := NewYFinance(server.URL, nil, WithRetries(0, time.Millisecond)).FetchOptionChain(context.Background(), "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeProviderFetchFailed))
	suite.Equal(int32(1), hits.Load())
}

func (suite *YFinanceTestSuite) TestContextDeadline() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		writeJSON(w, http.StatusOK, firstPage)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewYFinance(server.URL, nil).FetchOptionChain(ctx, "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeProviderTimeout))
}

func (suite *YFinanceTestSuite) TestExpiryConstants() {
	suite.Equal("2026-11-20", time.Unix(expiryNov, 0).UTC().Format("2006-01-02"))
	suite.Equal("2026-12-18", time.Unix(expiryDec, 0).UTC().Format("2006-01-02"))
}

package mocks

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
)

// ChainGenerator generates plausible option chains for tests and offline fixtures.
type ChainGenerator struct {
	rng *rand.Rand
}

// NewChainGenerator creates a new ChainGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewChainGenerator(seed int64) *ChainGenerator {
	return &ChainGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ChainConfig configures how a chain is generated.
type ChainConfig struct {
	// Ticker is the underlying symbol (e.g., "AAPL", "SPY")
	Ticker string
	// AsOf is the quote date; expiries are weekly Fridays after it
	AsOf time.Time
	// Expiries is the number of expiration dates
	Expiries int
	// StrikesPerSide is the number of strikes above and below spot
	StrikesPerSide int
	// Spot is the underlying price
	Spot float64
	// StrikeStep is the distance between strikes
	StrikeStep float64
	// Volatility is the base implied volatility (0.25 = 25%)
	Volatility float64
	// Spread is the bid/ask spread as a fraction of the mid price
	Spread float64
}

// DefaultChainConfig returns a sensible default configuration.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		Ticker:         "TEST",
		AsOf:           time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Expiries:       4,
		StrikesPerSide: 5,
		Spot:           100.0,
		StrikeStep:     2.5,
		Volatility:     0.25,
		Spread:         0.05,
	}
}

// Generate creates an OptionChain based on the configuration. Premiums follow
// Black-Scholes with zero rates and a small random smile on the volatility.
func (g *ChainGenerator) Generate(config ChainConfig) types.OptionChain {
	chain := types.OptionChain{
		Ticker: config.Ticker,
		Chains: make([]types.ExpiryGroup, 0, config.Expiries),
	}

	expiry := nextFriday(config.AsOf)

	for e := 0; e < config.Expiries; e++ {
		years := expiry.Sub(config.AsOf).Hours() / 24 / 365
		group := types.ExpiryGroup{
			Expiry: expiry.Format("2006-01-02"),
			Calls:  make([]types.Contract, 0, 2*config.StrikesPerSide+1),
			Puts:   make([]types.Contract, 0, 2*config.StrikesPerSide+1),
		}

		atm := math.Round(config.Spot/config.StrikeStep) * config.StrikeStep

		for i := -config.StrikesPerSide; i <= config.StrikesPerSide; i++ {
			strike := atm + float64(i)*config.StrikeStep
			if strike <= 0 {
				continue
			}

			moneyness := math.Abs(math.Log(strike / config.Spot))
			iv := config.Volatility * (1 + moneyness + (g.rng.Float64()-0.5)*0.05)

			callMid, putMid := blackScholes(config.Spot, strike, years, iv)

			group.Calls = append(group.Calls, g.contract(config, expiry, "C", strike, callMid, iv, strike < config.Spot))
			group.Puts = append(group.Puts, g.contract(config, expiry, "P", strike, putMid, iv, strike > config.Spot))
		}

		chain.Chains = append(chain.Chains, group)
		expiry = expiry.AddDate(0, 0, 7)
	}

	return chain
}

// GenerateMany generates one chain per ticker with varied spot and volatility.
func (g *ChainGenerator) GenerateMany(tickers []string, baseConfig ChainConfig) map[string]types.OptionChain {
	chains := make(map[string]types.OptionChain, len(tickers))

	for _, ticker := range tickers {
		config := baseConfig
		config.Ticker = ticker
		config.Spot = baseConfig.Spot * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		chains[ticker] = g.Generate(config)
	}

	return chains
}

// GenerateChain is a convenience function producing a default chain for ticker.
func GenerateChain(ticker string) types.OptionChain {
	gen := NewChainGenerator(42)
	config := DefaultChainConfig()
	config.Ticker = ticker

	return gen.Generate(config)
}

func (g *ChainGenerator) contract(config ChainConfig, expiry time.Time, right string, strike, mid, iv float64, itm bool) types.Contract {
	mid = math.Max(mid, 0.01)
	half := mid * config.Spread / 2

	return types.Contract{
		"contractSymbol":    contractSymbol(config.Ticker, expiry, right, strike),
		"strike":            roundToDecimals(strike, 2),
		"lastPrice":         roundToDecimals(mid, 2),
		"bid":               roundToDecimals(mid-half, 2),
		"ask":               roundToDecimals(mid+half, 2),
		"volume":            float64(g.rng.Intn(5000)),
		"openInterest":      float64(g.rng.Intn(20000)),
		"impliedVolatility": roundToDecimals(iv, 4),
		"inTheMoney":        itm,
	}
}

// contractSymbol builds an OCC style symbol, e.g. AAPL260116C00190000.
func contractSymbol(ticker string, expiry time.Time, right string, strike float64) string {
	return fmt.Sprintf("%s%s%s%08d", strings.ToUpper(ticker), expiry.Format("060102"), right, int(math.Round(strike*1000)))
}

func nextFriday(t time.Time) time.Time {
	days := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}

	return t.AddDate(0, 0, days)
}

func blackScholes(spot, strike, years, vol float64) (call, put float64) {
	if years <= 0 || vol <= 0 {
		return math.Max(spot-strike, 0), math.Max(strike-spot, 0)
	}

	sqrtT := math.Sqrt(years)
	d1 := (math.Log(spot/strike) + 0.5*vol*vol*years) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT

	call = spot*normCDF(d1) - strike*normCDF(d2)
	put = call - spot + strike

	return call, put
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}

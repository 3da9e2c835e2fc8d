package types

import (
	"strings"
	"time"
)

// DefaultProvider selects the registry's default backend.
const DefaultProvider = "default"

// ScanRequest asks the scanner to run one strategy over a list of tickers.
type ScanRequest struct {
	StrategyID string             `json:"strategy_id" yaml:"strategy_id" validate:"required,trimmed"`
	Tickers    []string           `json:"tickers" yaml:"tickers" validate:"required,min=1,dive,required,nonblank"`
	Params     map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	Provider   string             `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// Normalize fills in the default provider and copies Params so the caller's
// map is never shared with evaluators. The strategy id and the tickers are
// kept exactly as requested, including order and duplicates, because they are
// stamped onto every result.
func (r ScanRequest) Normalize() ScanRequest {
	tickers := make([]string, len(r.Tickers))
	copy(tickers, r.Tickers)

	params := make(map[string]float64, len(r.Params))
	for k, v := range r.Params {
		params[k] = v
	}

	provider := strings.TrimSpace(r.Provider)
	if provider == "" {
		provider = DefaultProvider
	}

	return ScanRequest{
		StrategyID: r.StrategyID,
		Tickers:    tickers,
		Params:     params,
		Provider:   provider,
	}
}

// ProviderSymbol is the form of ticker handed to data providers.
func ProviderSymbol(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// TickerStatus is the outcome of one ticker within a scan.
type TickerStatus string

const (
	TickerStatusOK     TickerStatus = "ok"
	TickerStatusFailed TickerStatus = "failed"
)

// TickerErrorKind tells a fetch failure apart from an evaluation failure.
type TickerErrorKind string

const (
	TickerErrorProviderFetch TickerErrorKind = "provider_fetch_error"
	TickerErrorEvaluation    TickerErrorKind = "evaluation_error"
)

// TickerError describes why a ticker contributed no opportunities.
type TickerError struct {
	Code    int             `json:"code" yaml:"code"`
	Kind    TickerErrorKind `json:"kind" yaml:"kind"`
	Message string          `json:"message" yaml:"message"`
}

// TickerResult reports one requested ticker. A ticker with Status ok and
// OpportunityCount 0 succeeded with nothing found; Status failed means it never
// produced a usable evaluation.
type TickerResult struct {
	Ticker           string       `json:"ticker" yaml:"ticker"`
	Status           TickerStatus `json:"status" yaml:"status"`
	OpportunityCount int          `json:"opportunity_count" yaml:"opportunity_count"`
	Error            *TickerError `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanResponse is the outcome of one scan and the document persisted as the
// latest snapshot for a strategy.
type ScanResponse struct {
	ScanID            string         `json:"scan_id" yaml:"scan_id"`
	StrategyID        string         `json:"strategy_id" yaml:"strategy_id"`
	Provider          string         `json:"provider" yaml:"provider"`
	RequestedProvider string         `json:"requested_provider" yaml:"requested_provider"`
	StartedAt         time.Time      `json:"started_at" yaml:"started_at"`
	CompletedAt       time.Time      `json:"completed_at" yaml:"completed_at"`
	Opportunities     []Opportunity  `json:"opportunities" yaml:"opportunities"`
	Tickers           []TickerResult `json:"tickers" yaml:"tickers"`
}

// FailedTickers returns the symbols whose status is failed, in request order.
func (r ScanResponse) FailedTickers() []string {
	failed := []string{}

	for _, t := range r.Tickers {
		if t.Status == TickerStatusFailed {
			failed = append(failed, t.Ticker)
		}
	}

	return failed
}

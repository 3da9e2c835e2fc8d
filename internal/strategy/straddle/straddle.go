// Package straddle is the basic straddle strategy: buy a call and a put at
// the same strike to profit from volatility. The evaluator does not yet
// select any contracts and reports no opportunities.
package straddle

import (
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
)

// ID is the strategy id this plugin serves.
const ID = "basic_straddle"

// Params are the tunables of the straddle scan. Values come from the strategy
// configuration and can be overridden per scan.
type Params struct {
	MinDaysToExpiry int     `json:"min_days_to_expiry" yaml:"min_days_to_expiry" jsonschema:"title=Min Days To Expiry,description=Skip expiries closer than this many days,minimum=0,default=14" validate:"gte=0"`
	MaxDaysToExpiry int     `json:"max_days_to_expiry" yaml:"max_days_to_expiry" jsonschema:"title=Max Days To Expiry,description=Skip expiries further than this many days,minimum=0,default=60" validate:"gtefield=MinDaysToExpiry"`
	MinCredit       float64 `json:"min_credit" yaml:"min_credit" jsonschema:"title=Min Credit,description=Minimum combined premium per straddle,minimum=0" validate:"gte=0"`
	MaxRisk         float64 `json:"max_risk" yaml:"max_risk" jsonschema:"title=Max Risk,description=Maximum capital at risk per straddle (0 for no limit),minimum=0" validate:"gte=0"`
}

// DefaultParams returns the parameters used when the configuration sets none.
func DefaultParams() Params {
	return Params{
		MinDaysToExpiry: 14,
		MaxDaysToExpiry: 60,
		MinCredit:       0,
		MaxRisk:         0,
	}
}

// Evaluator is the configured straddle evaluator.
type Evaluator struct {
	params Params
}

// New builds an evaluator from the strategy configuration.
func New(config types.StrategyConfig) (strategy.Evaluator, error) {
	params := DefaultParams()
	if err := strategy.DecodeConfig(config, &params); err != nil {
		return nil, err
	}

	return &Evaluator{params: params}, nil
}

// Plugin returns the registry entry for the straddle strategy.
func Plugin() strategy.Plugin {
	return strategy.Plugin{
		ID:     ID,
		New:    New,
		Params: DefaultParams(),
	}
}

// Params returns the configured parameters.
func (e *Evaluator) Params() Params {
	return e.params
}

// Evaluate validates the scan overrides and returns no candidates.
func (e *Evaluator) Evaluate(_ types.OptionChain, overrides map[string]float64) ([]types.Candidate, error) {
	if _, err := strategy.ApplyOverrides(e.params, overrides); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEvaluationFailed, "basic_straddle", err)
	}

	return []types.Candidate{}, nil
}

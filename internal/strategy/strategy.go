// Package strategy defines the contract every strategy evaluator implements
// and the registry that maps strategy ids to evaluator factories.
package strategy

import (
	"github.com/arvindk1/options-strategy-scanner/internal/types"
)

// Evaluator scores one option chain.
//
// Evaluate must not mutate chain or params and must not perform I/O. One
// evaluator instance is shared by every ticker of a scan and may be called
// concurrently. Each returned candidate must carry score, expected_return and
// max_risk; any other key is passed through to the opportunity unchanged.
// The order of the returned slice is kept in the scan output.
type Evaluator interface {
	Evaluate(chain types.OptionChain, params map[string]float64) ([]types.Candidate, error)
}

// Factory builds an evaluator from its configuration. It should reject a
// malformed configuration with an ErrCodeStrategyConfigError error.
type Factory func(config types.StrategyConfig) (Evaluator, error)

// Plugin is one registered strategy implementation.
type Plugin struct {
	// ID must equal the id of the strategy configuration it serves.
	ID string
	// New constructs an evaluator for one scan.
	New Factory
	// Params is the zero value (or defaults) of the plugin's typed parameter
	// struct. It is only used to publish the JSON schema and may be nil.
	Params any
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(chain types.OptionChain, params map[string]float64) ([]types.Candidate, error)

func (f EvaluatorFunc) Evaluate(chain types.OptionChain, params map[string]float64) ([]types.Candidate, error) {
	return f(chain, params)
}

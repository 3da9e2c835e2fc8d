package scanner

import (
	"fmt"
	"math"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/spf13/cast"
)

var requiredFields = []string{types.FieldScore, types.FieldExpectedReturn, types.FieldMaxRisk}

// ToOpportunity validates candidate and stamps ticker and strategy onto it.
// Ticker and strategy keys supplied by the evaluator are discarded.
func ToOpportunity(ticker, strategyID string, candidate types.Candidate) (types.Opportunity, error) {
	values := make(map[string]float64, len(requiredFields))

	for _, field := range requiredFields {
		raw, ok := candidate[field]
		if !ok {
			return types.Opportunity{}, fmt.Errorf("candidate is missing %q", field)
		}

		value, err := toFloat(raw)
		if err != nil {
			return types.Opportunity{}, fmt.Errorf("candidate field %q: %w", field, err)
		}

		values[field] = value
	}

	var extra map[string]any

	for k, v := range candidate {
		if types.IsCoreField(k) {
			continue
		}

		if extra == nil {
			extra = make(map[string]any, len(candidate))
		}

		extra[k] = v
	}

	return types.Opportunity{
		Ticker:         ticker,
		Strategy:       strategyID,
		Score:          values[types.FieldScore],
		ExpectedReturn: values[types.FieldExpectedReturn],
		MaxRisk:        values[types.FieldMaxRisk],
		Extra:          extra,
	}, nil
}

// toFloat accepts numeric values only. cast would also parse strings and
// treat bools and nil as numbers, so those are rejected first.
func toFloat(v any) (float64, error) {
	switch v.(type) {
	case nil, string, bool, []byte:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", f)
	}

	return f, nil
}

package types

import (
	"encoding/json"
)

const (
	FieldTicker         = "ticker"
	FieldStrategy       = "strategy"
	FieldScore          = "score"
	FieldExpectedReturn = "expected_return"
	FieldMaxRisk        = "max_risk"
)

// Candidate is the raw field mapping an evaluator returns for one discovered trade.
// It must carry score, expected_return and max_risk; any other key is passed through.
type Candidate map[string]any

// Opportunity is one scored candidate trade for one ticker under one strategy.
// Ticker and Strategy are stamped by the scanner, never by the evaluator.
//
// Extra holds the additional candidate fields. On the wire they are flattened
// next to the core fields; a core field always wins over an extra with the same key.
type Opportunity struct {
	Ticker         string         `json:"ticker" yaml:"ticker"`
	Strategy       string         `json:"strategy" yaml:"strategy"`
	Score          float64        `json:"score" yaml:"score"`
	ExpectedReturn float64        `json:"expected_return" yaml:"expected_return"`
	MaxRisk        float64        `json:"max_risk" yaml:"max_risk"`
	Extra          map[string]any `json:"-" yaml:"extra,omitempty"`
}

// IsCoreField reports whether key is one of the fields owned by Opportunity itself.
func IsCoreField(key string) bool {
	switch key {
	case FieldTicker, FieldStrategy, FieldScore, FieldExpectedReturn, FieldMaxRisk:
		return true
	default:
		return false
	}
}

// MarshalJSON flattens Extra into the top-level object.
func (o Opportunity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Extra)+5)
	for k, v := range o.Extra {
		if IsCoreField(k) {
			continue
		}

		out[k] = v
	}

	out[FieldTicker] = o.Ticker
	out[FieldStrategy] = o.Strategy
	out[FieldScore] = o.Score
	out[FieldExpectedReturn] = o.ExpectedReturn
	out[FieldMaxRisk] = o.MaxRisk

	return json.Marshal(out)
}

// UnmarshalJSON reads the core fields and collects every other key into Extra.
func (o *Opportunity) UnmarshalJSON(data []byte) error {
	type core struct {
		Ticker         string  `json:"ticker"`
		Strategy       string  `json:"strategy"`
		Score          float64 `json:"score"`
		ExpectedReturn float64 `json:"expected_return"`
		MaxRisk        float64 `json:"max_risk"`
	}

	var c core
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var extra map[string]any

	for k, v := range raw {
		if IsCoreField(k) {
			continue
		}

		if extra == nil {
			extra = make(map[string]any)
		}

		extra[k] = v
	}

	*o = Opportunity{
		Ticker:         c.Ticker,
		Strategy:       c.Strategy,
		Score:          c.Score,
		ExpectedReturn: c.ExpectedReturn,
		MaxRisk:        c.MaxRisk,
		Extra:          extra,
	}

	return nil
}

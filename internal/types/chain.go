package types

// Contract is a single call or put record. Its fields (strike, bid, ask,
// greeks, open interest...) are defined by the provider and passed through
// to the evaluator untouched.
type Contract map[string]any

// ExpiryGroup holds the calls and puts of one expiration.
type ExpiryGroup struct {
	Expiry string     `json:"expiry" yaml:"expiry"`
	Calls  []Contract `json:"calls" yaml:"calls"`
	Puts   []Contract `json:"puts" yaml:"puts"`
}

// OptionChain is the provider output for one ticker.
type OptionChain struct {
	Ticker string        `json:"ticker" yaml:"ticker"`
	Chains []ExpiryGroup `json:"chains" yaml:"chains"`
}

// ContractCount returns the number of calls and puts across all expiries.
func (c OptionChain) ContractCount() int {
	n := 0
	for _, group := range c.Chains {
		n += len(group.Calls) + len(group.Puts)
	}

	return n
}

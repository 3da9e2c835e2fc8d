package types

// TickerInfo is one entry of the ticker universe.
type TickerInfo struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

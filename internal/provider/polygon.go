package provider

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
)

const PolygonName = "polygon"

// Polygon is registered so that selecting it is explicit, but option chain
// retrieval is not implemented: every fetch fails with
// ErrCodeProviderNotSupported and the scanner records it per ticker.
type Polygon struct{}

func NewPolygon() *Polygon {
	return &Polygon{}
}

func (p *Polygon) FetchOptionChain(_ context.Context, ticker string) (types.OptionChain, error) {
	return types.OptionChain{}, errors.Newf(errors.ErrCodeProviderNotSupported,
		"polygon option chains are not supported (ticker %s)", ticker)
}

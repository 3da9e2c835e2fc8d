package results

import (
	"math"
	"strconv"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
)

// Filter narrows the opportunities of a snapshot. Unset bounds match everything.
type Filter struct {
	MinScore optional.Option[float64]
	MaxRisk  optional.Option[float64]
}

// ParseFilter reads min_score and max_risk query values. Empty strings are unset.
func ParseFilter(minScore, maxRisk string) (Filter, error) {
	var f Filter

	var err error

	if f.MinScore, err = parseBound("min_score", minScore); err != nil {
		return Filter{}, err
	}

	if f.MaxRisk, err = parseBound("max_risk", maxRisk); err != nil {
		return Filter{}, err
	}

	return f, nil
}

func parseBound(name, raw string) (optional.Option[float64], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return optional.None[float64](), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return optional.None[float64](), errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s must be a number", name)
	}

	// NaN compares false against everything and would match every opportunity
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.None[float64](), errors.Newf(errors.ErrCodeInvalidParameter, "%s must be finite, got %s", name, raw)
	}

	return optional.Some(v), nil
}

// IsZero reports whether the filter has no bounds.
func (f Filter) IsZero() bool {
	return f.MinScore.IsNone() && f.MaxRisk.IsNone()
}

// Match reports whether opp is within the bounds.
func (f Filter) Match(opp types.Opportunity) bool {
	if f.MinScore.IsSome() && opp.Score < f.MinScore.Unwrap() {
		return false
	}

	if f.MaxRisk.IsSome() && opp.MaxRisk > f.MaxRisk.Unwrap() {
		return false
	}

	return true
}

// Apply returns a copy of resp holding only the matching opportunities.
// The per-ticker report is left as saved.
func (f Filter) Apply(resp types.ScanResponse) types.ScanResponse {
	out := resp
	out.Opportunities = make([]types.Opportunity, 0, len(resp.Opportunities))

	for _, opp := range resp.Opportunities {
		if f.Match(opp) {
			out.Opportunities = append(out.Opportunities, opp)
		}
	}

	return out
}

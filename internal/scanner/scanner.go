// Package scanner runs one strategy over a list of tickers.
//
// A scan first resolves the strategy and the provider. Any resolution error
// aborts it before a single chain is fetched. Tickers are then fetched and
// evaluated concurrently; a fetch or evaluation failure only affects its own
// ticker and is reported in ScanResponse.Tickers. Opportunities come back in
// ticker input order, then evaluator output order, whatever order the
// tickers finish in.
package scanner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/provider"
	"github.com/arvindk1/options-strategy-scanner/internal/resolver"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxConcurrency = 8
	DefaultFetchTimeout   = 30 * time.Second
)

// StrategyResolver turns a strategy id into a configured evaluator.
type StrategyResolver interface {
	Resolve(ctx context.Context, id string) (resolver.Resolved, error)
}

// ProviderResolver maps a provider selector to a backend.
type ProviderResolver interface {
	Resolve(name string) (provider.Selection, error)
}

// ProgressFunc is called once per ticker as soon as it finishes. Calls are
// serialized but arrive in completion order.
type ProgressFunc func(result types.TickerResult)

// Scanner is the scan orchestrator. It holds no per-scan state and is safe
// for concurrent use.
type Scanner struct {
	strategies     StrategyResolver
	providers      ProviderResolver
	validate       *validator.Validate
	logger         *logger.Logger
	maxConcurrency int
	fetchTimeout   time.Duration
	now            func() time.Time
	newID          func() string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMaxConcurrency limits how many tickers are processed at once.
func WithMaxConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithFetchTimeout bounds each chain fetch. Zero disables the timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Scanner) {
		s.fetchTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock replaces time.Now for scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

func NewScanner(strategies StrategyResolver, providers ProviderResolver, opts ...Option) *Scanner {
	s := &Scanner{
		strategies:     strategies,
		providers:      providers,
		validate:       newValidator(),
		logger:         logger.NewNopLogger(),
		maxConcurrency: DefaultMaxConcurrency,
		fetchTimeout:   DefaultFetchTimeout,
		now:            time.Now,
		newID:          uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// newValidator adds the tags ScanRequest relies on. A padded strategy id is
// rejected rather than trimmed so it never resolves to a different id than the
// one stamped on results.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()

		return value == strings.TrimSpace(value)
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// tickerOutcome is what one ticker contributes to the scan.
type tickerOutcome struct {
	opportunities []types.Opportunity
	err           *types.TickerError
}

// Scan runs req and returns the flattened opportunities plus one report
// entry per requested ticker.
//
// The returned error is non-nil only when the request is invalid or the
// strategy or provider cannot be resolved. Per-ticker failures are never
// returned as an error.
func (s *Scanner) Scan(ctx context.Context, req types.ScanRequest, onProgress ProgressFunc) (types.ScanResponse, error) {
	req = req.Normalize()

	if err := s.validate.Struct(req); err != nil {
		return types.ScanResponse{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid scan request", err)
	}

	resolved, err := s.strategies.Resolve(ctx, req.StrategyID)
	if err != nil {
		return types.ScanResponse{}, err
	}

	selection, err := s.providers.Resolve(req.Provider)
	if err != nil {
		return types.ScanResponse{}, err
	}

	resp := types.ScanResponse{
		ScanID:            s.newID(),
		StrategyID:        req.StrategyID,
		Provider:          selection.Name,
		RequestedProvider: req.Provider,
		StartedAt:         s.now().UTC(),
	}

	log := s.logger.With(
		zap.String("scan_id", resp.ScanID),
		zap.String("strategy", req.StrategyID),
		zap.String("provider", selection.Name),
	)

	if selection.FellBack {
		log.Warn("Scan uses the default provider",
			zap.String("requested_provider", req.Provider))
	}

	outcomes := make([]tickerOutcome, len(req.Tickers))

	var progressMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, ticker := range req.Tickers {
		g.Go(func() error {
			outcomes[i] = s.scanTicker(ctx, resolved, selection.Provider, ticker, req.Params)

			if outcomes[i].err != nil {
				log.Warn("Ticker failed",
					zap.String("ticker", ticker),
					zap.String("kind", string(outcomes[i].err.Kind)),
					zap.Int("code", outcomes[i].err.Code),
					zap.String("error", outcomes[i].err.Message))
			}

			if onProgress != nil {
				progressMu.Lock()
				onProgress(report(ticker, outcomes[i]))
				progressMu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	resp.Opportunities = []types.Opportunity{}
	resp.Tickers = make([]types.TickerResult, len(req.Tickers))

	for i, ticker := range req.Tickers {
		resp.Opportunities = append(resp.Opportunities, outcomes[i].opportunities...)
		resp.Tickers[i] = report(ticker, outcomes[i])
	}

	resp.CompletedAt = s.now().UTC()

	log.Info("Scan completed",
		zap.Int("tickers", len(req.Tickers)),
		zap.Int("failed", len(resp.FailedTickers())),
		zap.Int("opportunities", len(resp.Opportunities)),
		zap.Duration("duration", resp.CompletedAt.Sub(resp.StartedAt)))

	return resp, nil
}

func report(ticker string, outcome tickerOutcome) types.TickerResult {
	if outcome.err != nil {
		return types.TickerResult{
			Ticker: ticker,
			Status: types.TickerStatusFailed,
			Error:  outcome.err,
		}
	}

	return types.TickerResult{
		Ticker:           ticker,
		Status:           types.TickerStatusOK,
		OpportunityCount: len(outcome.opportunities),
	}
}

func (s *Scanner) scanTicker(
	ctx context.Context,
	resolved resolver.Resolved,
	p provider.Provider,
	ticker string,
	params map[string]float64,
) tickerOutcome {
	chain, err := s.fetch(ctx, p, ticker)
	if err != nil {
		return tickerOutcome{err: tickerError(types.TickerErrorProviderFetch, err)}
	}

	candidates, err := evaluate(resolved.Evaluator, chain, copyParams(params))
	if err != nil {
		return tickerOutcome{err: tickerError(types.TickerErrorEvaluation, err)}
	}

	opportunities := make([]types.Opportunity, 0, len(candidates))

	for i, candidate := range candidates {
		opp, err := ToOpportunity(ticker, resolved.StrategyID, candidate)
		if err != nil {
			return tickerOutcome{err: tickerError(types.TickerErrorEvaluation,
				errors.Wrapf(errors.ErrCodeEvaluationFailed, err, "candidate %d", i))}
		}

		opportunities = append(opportunities, opp)
	}

	return tickerOutcome{opportunities: opportunities}
}

func (s *Scanner) fetch(ctx context.Context, p provider.Provider, ticker string) (types.OptionChain, error) {
	fetchCtx := ctx

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc

		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	chain, err := p.FetchOptionChain(fetchCtx, types.ProviderSymbol(ticker))
	if err == nil {
		return chain, nil
	}

	if errors.GetCode(err) != errors.ErrCodeUnknown {
		return types.OptionChain{}, err
	}

	if fetchCtx.Err() != nil {
		return types.OptionChain{}, errors.Wrapf(errors.ErrCodeProviderTimeout, err, "fetching %s", ticker)
	}

	return types.OptionChain{}, errors.Wrapf(errors.ErrCodeProviderFetchFailed, err, "fetching %s", ticker)
}

// evaluate calls the evaluator and turns a panic into an error so one bad
// chain cannot take down the scan.
func evaluate(ev strategy.Evaluator, chain types.OptionChain, params map[string]float64) (candidates []types.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeEvaluationFailed, "evaluator panicked: %v", r)
		}
	}()

	candidates, err = ev.Evaluate(chain, params)
	if err != nil && errors.GetCode(err) == errors.ErrCodeUnknown {
		err = errors.Wrap(errors.ErrCodeEvaluationFailed, "evaluation failed", err)
	}

	return candidates, err
}

func tickerError(kind types.TickerErrorKind, err error) *types.TickerError {
	return &types.TickerError{
		Code:    int(errors.GetCode(err)),
		Kind:    kind,
		Message: err.Error(),
	}
}

func copyParams(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[k] = v
	}

	return out
}


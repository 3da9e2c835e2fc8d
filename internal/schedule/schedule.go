// Package schedule runs configured scans on cron schedules.
package schedule

import (
	"context"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/scanner"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scans is the part of the service a scheduled job needs.
type Scans interface {
	RunScan(ctx context.Context, req types.ScanRequest, onProgress scanner.ProgressFunc) (types.ScanResponse, error)
	UniverseSymbols(ctx context.Context) ([]string, error)
}

// Runner owns the cron scheduler. A job that is still running when its
// next tick arrives is skipped, and a panicking job is recovered.
type Runner struct {
	cron    *cron.Cron
	scans   Scans
	logger  *logger.Logger
	baseCtx context.Context
}

func NewRunner(baseCtx context.Context, scans Scans, log *logger.Logger) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	cronLog := cronLogger{log: log}

	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		scans:   scans,
		logger:  log,
		baseCtx: baseCtx,
	}
}

// Add registers one schedule. The spec uses six fields with seconds first,
// or a descriptor such as "@every 15m".
func (r *Runner) Add(sc config.ScheduleConfig) (cron.EntryID, error) {
	if strings.TrimSpace(sc.StrategyID) == "" {
		return 0, errors.Newf(errors.ErrCodeScheduleInvalid, "schedule %s has no strategy_id", sc.Name)
	}

	job := r.Job(sc)

	id, err := r.cron.AddFunc(sc.Spec, func() {
		job(r.baseCtx)
	})
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeScheduleInvalid, err, "schedule %s has an invalid spec %q", sc.Name, sc.Spec)
	}

	r.logger.Info("Scheduled scan",
		zap.String("schedule", sc.Name),
		zap.String("spec", sc.Spec),
		zap.String("strategy", sc.StrategyID))

	return id, nil
}

// AddAll registers every schedule and stops at the first invalid one.
func (r *Runner) AddAll(schedules []config.ScheduleConfig) error {
	for _, sc := range schedules {
		if _, err := r.Add(sc); err != nil {
			return err
		}
	}

	return nil
}

// Job returns the function run on every tick of sc. Errors are logged and
// never stop the scheduler. A schedule without tickers scans the universe.
func (r *Runner) Job(sc config.ScheduleConfig) func(context.Context) {
	return func(ctx context.Context) {
		log := r.logger.With(zap.String("schedule", sc.Name), zap.String("strategy", sc.StrategyID))

		tickers := sc.Tickers
		if len(tickers) == 0 {
			symbols, err := r.scans.UniverseSymbols(ctx)
			if err != nil {
				log.Error("Scheduled scan could not load the ticker universe", zap.Error(err))

				return
			}

			tickers = symbols
		}

		resp, err := r.scans.RunScan(ctx, types.ScanRequest{
			StrategyID: sc.StrategyID,
			Tickers:    tickers,
			Params:     sc.Params,
			Provider:   sc.Provider,
		}, nil)
		if err != nil {
			log.Error("Scheduled scan failed", zap.Int("code", int(errors.GetCode(err))), zap.Error(err))

			return
		}

		log.Info("Scheduled scan finished",
			zap.String("scan_id", resp.ScanID),
			zap.Int("opportunities", len(resp.Opportunities)),
			zap.Int("failed", len(resp.FailedTickers())))
	}
}

// Len returns the number of registered schedules.
func (r *Runner) Len() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.logger.Info("Scheduler started", zap.Int("schedules", r.Len()))
	r.cron.Start()
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Scheduler stopped")
}

// cronLogger forwards cron's own logging to zap.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// Package results persists the latest scan of each strategy.
package results

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/store"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// Store keeps one ScanResponse per strategy id in the results collection.
// Saving replaces the previous snapshot; no history is kept.
type Store struct {
	docs   store.DocumentStore
	logger *logger.Logger
}

func NewStore(docs store.DocumentStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Store{docs: docs, logger: log}
}

// Save overwrites the snapshot for resp.StrategyID.
func (s *Store) Save(ctx context.Context, resp types.ScanResponse) error {
	if resp.StrategyID == "" {
		return errors.New(errors.ErrCodeMissingParameter, "scan response has no strategy id")
	}

	if resp.Opportunities == nil {
		resp.Opportunities = []types.Opportunity{}
	}

	doc, err := store.ToDocument(resp)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to encode scan results", err)
	}

	if err := s.docs.Put(ctx, store.CollectionResults, resp.StrategyID, doc); err != nil {
		s.logger.Error("Failed to persist scan results",
			zap.String("strategy", resp.StrategyID),
			zap.String("scan_id", resp.ScanID),
			zap.Error(err))

		return persistenceError(err, "failed to save results for %s", resp.StrategyID)
	}

	return nil
}

// Latest returns the last saved snapshot for strategyID, or None if the
// strategy was never scanned.
func (s *Store) Latest(ctx context.Context, strategyID string) (optional.Option[types.ScanResponse], error) {
	found, err := s.docs.Get(ctx, store.CollectionResults, strategyID)
	if err != nil {
		return optional.None[types.ScanResponse](), persistenceError(err, "failed to load results for %s", strategyID)
	}

	if found.IsNone() {
		return optional.None[types.ScanResponse](), nil
	}

	var resp types.ScanResponse
	if err := store.Decode(found.Unwrap(), &resp); err != nil {
		return optional.None[types.ScanResponse](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "stored results for %s are unreadable", strategyID)
	}

	if resp.Opportunities == nil {
		resp.Opportunities = []types.Opportunity{}
	}

	return optional.Some(resp), nil
}

// StrategyIDs lists the strategies that have a saved snapshot.
func (s *Store) StrategyIDs(ctx context.Context) ([]string, error) {
	ids, err := s.docs.Keys(ctx, store.CollectionResults)
	if err != nil {
		return nil, persistenceError(err, "failed to list results")
	}

	return ids, nil
}

func persistenceError(err error, format string, args ...any) error {
	if errors.HasCode(err, errors.ErrCodePersistenceFailed) {
		return err
	}

	return errors.Wrapf(errors.ErrCodePersistenceFailed, err, format, args...)
}

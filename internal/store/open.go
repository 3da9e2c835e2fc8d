package store

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open builds the backend selected by cfg.Backend. The caller owns the
// returned store and must Close it.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (DocumentStore, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	switch cfg.Backend {
	case "", "memory":
		log.Info("Using in-memory document store")

		return NewMemoryStore(), nil
	case "duckdb":
		log.Info("Using DuckDB document store", zap.String("path", cfg.DuckDBPath))

		return NewDuckDBStore(cfg.DuckDBPath, log)
	case "redis":
		s := NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := s.Client.Ping(ctx).Err(); err != nil {
			s.Close()

			return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to connect to redis at %s", cfg.RedisAddr)
		}

		log.Info("Using Redis document store", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))

		return s, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown store backend: %s", cfg.Backend)
	}
}

// Package resolver turns a strategy id into a configured evaluator.
package resolver

import (
	"context"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/internal/version"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// ConfigSource looks up strategy configurations by id.
type ConfigSource interface {
	Config(ctx context.Context, id string) (optional.Option[types.StrategyConfig], error)
}

// Resolved is an evaluator bound to the configuration it was built from.
type Resolved struct {
	StrategyID string
	Config     types.StrategyConfig
	Evaluator  strategy.Evaluator
}

// Resolver binds stored configurations to registered plugins. It does not
// cache: every call reads the configuration and builds a fresh evaluator.
type Resolver struct {
	configs  ConfigSource
	registry strategy.Registry
	logger   *logger.Logger
}

func NewResolver(configs ConfigSource, registry strategy.Registry, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Resolver{configs: configs, registry: registry, logger: log}
}

// Resolve returns a ready evaluator for id.
//
// Errors, checked in this order:
//   - ErrCodeStrategyNotFound when no configuration exists for id
//   - ErrCodePluginNotFound when the configuration exists but no plugin is registered
//   - ErrCodeVersionMismatch when the configuration pins an incompatible engine_version
//   - ErrCodeStrategyConfigError when the plugin rejects the configuration
//
// Store failures are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolved, error) {
	found, err := r.configs.Config(ctx, id)
	if err != nil {
		return Resolved{}, err
	}

	if found.IsNone() {
		return Resolved{}, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy config not found: %s", id)
	}

	config := found.Unwrap()

	plugin, err := r.registry.Lookup(id)
	if err != nil {
		r.logger.Warn("Strategy has a config but no plugin", zap.String("strategy", id))

		return Resolved{}, err
	}

	if pinned := config.String(types.ConfigKeyEngineVersion); pinned != "" {
		if err := version.CheckPinned(pinned); err != nil {
			return Resolved{}, errors.Wrapf(errors.ErrCodeVersionMismatch, err,
				"strategy %s pins engine_version %s, scanner is %s", id, pinned, version.GetVersion())
		}
	}

	evaluator, err := plugin.New(config.Clone())
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeStrategyConfigError) {
			return Resolved{}, err
		}

		return Resolved{}, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to construct strategy %s", id)
	}

	if evaluator == nil {
		return Resolved{}, errors.Newf(errors.ErrCodeStrategyConfigError, "plugin %s returned no evaluator", id)
	}

	return Resolved{StrategyID: id, Config: config, Evaluator: evaluator}, nil
}

package resolver

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvindk1/options-strategy-scanner/internal/descriptor"
	"github.com/arvindk1/options-strategy-scanner/internal/store"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy"
	"github.com/arvindk1/options-strategy-scanner/internal/strategy/straddle"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/internal/version"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite
	dir         string
	descriptors *descriptor.Store
	registry    *strategy.RegistryV1
	resolver    *Resolver
	built       int
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.descriptors = descriptor.NewStore(suite.dir, store.NewMemoryStore(), nil)
	suite.registry = strategy.NewRegistry()
	suite.built = 0

	suite.Require().NoError(suite.registry.Register(straddle.Plugin()))
	suite.Require().NoError(suite.registry.Register(strategy.Plugin{
		ID: "counting",
		New: func(types.StrategyConfig) (strategy.Evaluator, error) {
			suite.built++

			return strategy.EvaluatorFunc(func(types.OptionChain, map[string]float64) ([]types.Candidate, error) {
				return nil, nil
			}), nil
		},
	}))

	suite.resolver = NewResolver(suite.descriptors, suite.registry, nil)
}

func (suite *ResolverTestSuite) writeConfig(id, body string) {
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, id+".json"), []byte(body), 0o600))
}

func (suite *ResolverTestSuite) TestResolveKnownStrategy() {
	suite.writeConfig("basic_straddle", `{"id":"basic_straddle","name":"Basic Straddle","min_credit":1.5}`)

	resolved, err := suite.resolver.Resolve(context.Background(), "basic_straddle")
	suite.Require().NoError(err)
	suite.Equal("basic_straddle", resolved.StrategyID)
	suite.Equal(1.5, resolved.Config["min_credit"])
	suite.Require().NotNil(resolved.Evaluator)
	suite.Equal(1.5, resolved.Evaluator.(*straddle.Evaluator).Params().MinCredit)
}

func (suite *ResolverTestSuite) TestUnknownStrategyIsStrategyNotFound() {
	// registered plugin but no config: still StrategyNotFound, factory untouched
	_, err := suite.resolver.Resolve(context.Background(), "counting")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
	suite.Contains(err.Error(), "counting")
	suite.Equal(0, suite.built)

	_, err = suite.resolver.Resolve(context.Background(), "does_not_exist")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (suite *ResolverTestSuite) TestLookupIsIDExact() {
	suite.writeConfig("basic_straddle", `{"id":"basic_straddle"}`)

	for _, id := range []string{" basic_straddle", "basic_straddle ", "Basic_Straddle"} {
		_, err := suite.resolver.Resolve(context.Background(), id)
		suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound), id)
	}
}

func (suite *ResolverTestSuite) TestConfigWithoutPluginIsPluginNotFound() {
	suite.writeConfig("iron_condor", `{"id":"iron_condor","name":"Iron Condor"}`)

	_, err := suite.resolver.Resolve(context.Background(), "iron_condor")
	suite.True(errors.HasCode(err, errors.ErrCodePluginNotFound))
	suite.Contains(err.Error(), "iron_condor")
}

func (suite *ResolverTestSuite) TestBadConfigIsConfigurationError() {
	suite.writeConfig("basic_straddle", `{"id":"basic_straddle","min_days_to_expiry":90,"max_days_to_expiry":10}`)

	_, err := suite.resolver.Resolve(context.Background(), "basic_straddle")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (suite *ResolverTestSuite) TestFactoryPlainErrorIsWrapped() {
	suite.Require().NoError(suite.registry.Register(strategy.Plugin{
		ID: "fails",
		New: func(types.StrategyConfig) (strategy.Evaluator, error) {
			return nil, stderrors.New("boom")
		},
	}))
	suite.writeConfig("fails", `{"id":"fails"}`)

	_, err := suite.resolver.Resolve(context.Background(), "fails")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
	suite.Contains(err.Error(), "boom")
}

func (suite *ResolverTestSuite) TestNilEvaluatorIsConfigurationError() {
	suite.Require().NoError(suite.registry.Register(strategy.Plugin{
		ID: "nil_evaluator",
		New: func(types.StrategyConfig) (strategy.Evaluator, error) {
			return nil, nil
		},
	}))
	suite.writeConfig("nil_evaluator", `{"id":"nil_evaluator"}`)

	_, err := suite.resolver.Resolve(context.Background(), "nil_evaluator")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (suite *ResolverTestSuite) TestEngineVersionPin() {
	original := version.Version
	suite.T().Cleanup(func() { version.Version = original })
	version.Version = "v0.1.3"

	suite.writeConfig("counting", `{"id":"counting","engine_version":"0.1.0"}`)
	_, err := suite.resolver.Resolve(context.Background(), "counting")
	suite.NoError(err)

	suite.writeConfig("counting", `{"id":"counting","engine_version":"0.2.0"}`)
	_, err = suite.resolver.Resolve(context.Background(), "counting")
	suite.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))
	suite.True(errors.IsResolutionError(err))
}

func (suite *ResolverTestSuite) TestNoCachingSeesConfigChanges() {
	suite.writeConfig("basic_straddle", `{"id":"basic_straddle","min_credit":1}`)

	first, err := suite.resolver.Resolve(context.Background(), "basic_straddle")
	suite.Require().NoError(err)

	_, err = suite.descriptors.Save(context.Background(), types.StrategyConfig{"id": "basic_straddle", "min_credit": 3.0})
	suite.Require().NoError(err)

	second, err := suite.resolver.Resolve(context.Background(), "basic_straddle")
	suite.Require().NoError(err)

	suite.Equal(1.0, first.Evaluator.(*straddle.Evaluator).Params().MinCredit)
	suite.Equal(3.0, second.Evaluator.(*straddle.Evaluator).Params().MinCredit)
}

func (suite *ResolverTestSuite) TestFactoryCannotMutateStoredConfig() {
	suite.Require().NoError(suite.registry.Register(strategy.Plugin{
		ID: "mutator",
		New: func(cfg types.StrategyConfig) (strategy.Evaluator, error) {
			cfg["name"] = "mutated"

			return strategy.EvaluatorFunc(func(types.OptionChain, map[string]float64) ([]types.Candidate, error) {
				return nil, nil
			}), nil
		},
	}))
	suite.writeConfig("mutator", `{"id":"mutator","name":"Original"}`)

	resolved, err := suite.resolver.Resolve(context.Background(), "mutator")
	suite.Require().NoError(err)
	suite.Equal("Original", resolved.Config["name"])
}

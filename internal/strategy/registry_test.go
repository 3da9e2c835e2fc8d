package strategy

import (
	"testing"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/stretchr/testify/suite"
)

func emptyFactory(types.StrategyConfig) (Evaluator, error) {
	return EvaluatorFunc(func(types.OptionChain, map[string]float64) ([]types.Candidate, error) {
		return nil, nil
	}), nil
}

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestRegisterAndLookup() {
	registry := NewRegistry()

	suite.Require().NoError(registry.Register(Plugin{ID: "basic_straddle", New: emptyFactory}))

	plugin, err := registry.Lookup("basic_straddle")
	suite.NoError(err)
	suite.Equal("basic_straddle", plugin.ID)
	suite.NotNil(plugin.New)
}

func (suite *RegistryTestSuite) TestLookupMissing() {
	registry := NewRegistry()

	_, err := registry.Lookup("iron_condor")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePluginNotFound))
	suite.Contains(err.Error(), "iron_condor")
}

func (suite *RegistryTestSuite) TestLookupIsExact() {
	registry := NewRegistry()
	suite.Require().NoError(registry.Register(Plugin{ID: "basic_straddle", New: emptyFactory}))

	for _, id := range []string{"Basic_Straddle", "basic", "basic_straddle ", "basic_straddle_v2"} {
		_, err := registry.Lookup(id)
		suite.True(errors.HasCode(err, errors.ErrCodePluginNotFound), id)
	}
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	registry := NewRegistry()
	suite.Require().NoError(registry.Register(Plugin{ID: "s", New: emptyFactory}))

	err := registry.Register(Plugin{ID: "s", New: emptyFactory})
	suite.True(errors.HasCode(err, errors.ErrCodePluginAlreadyRegistered))
}

func (suite *RegistryTestSuite) TestRegisterInvalid() {
	registry := NewRegistry()

	suite.True(errors.HasCode(registry.Register(Plugin{ID: "", New: emptyFactory}), errors.ErrCodeInvalidParameter))
	suite.True(errors.HasCode(registry.Register(Plugin{ID: "s"}), errors.ErrCodeInvalidParameter))
	suite.Empty(registry.IDs())
}

func (suite *RegistryTestSuite) TestIDsSorted() {
	registry := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		suite.Require().NoError(registry.Register(Plugin{ID: id, New: emptyFactory}))
	}

	suite.Equal([]string{"a", "b", "c"}, registry.IDs())
}

package descriptor

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvindk1/options-strategy-scanner/internal/store"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/mocks"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DescriptorTestSuite struct {
	suite.Suite
	dir  string
	docs *store.MemoryStore
	s    *Store
}

func TestDescriptorSuite(t *testing.T) {
	suite.Run(t, new(DescriptorTestSuite))
}

func (suite *DescriptorTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.docs = store.NewMemoryStore()
	suite.s = NewStore(suite.dir, suite.docs, nil)
}

func (suite *DescriptorTestSuite) writeFile(name, body string) {
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, name), []byte(body), 0o600))
}

func (suite *DescriptorTestSuite) TestListFromFiles() {
	suite.writeFile("basic_straddle.json", `{"id":"basic_straddle","name":"Basic Straddle","description":"Buy call and put","risk_level":"medium","min_credit":1}`)
	suite.writeFile("iron_condor.yaml", "id: iron_condor\nname: Iron Condor\ndescription: Sell wings\n")
	suite.writeFile("notes.txt", "ignored")

	list, err := suite.s.List(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]types.StrategyDescriptor{
		{ID: "basic_straddle", Name: "Basic Straddle", Description: "Buy call and put", RiskLevel: "medium"},
		{ID: "iron_condor", Name: "Iron Condor", Description: "Sell wings"},
	}, list)
}

func (suite *DescriptorTestSuite) TestIDFallsBackToFileName() {
	suite.writeFile("covered_call.yml", "name: Covered Call\n")

	cfg, err := suite.s.Config(context.Background(), "covered_call")
	suite.Require().NoError(err)
	suite.Require().True(cfg.IsSome())
	suite.Equal("covered_call", cfg.Unwrap().ID())
	suite.Equal("Covered Call", cfg.Unwrap()["name"])
}

func (suite *DescriptorTestSuite) TestMissingDirIsEmpty() {
	s := NewStore(filepath.Join(suite.dir, "absent"), suite.docs, nil)

	list, err := s.List(context.Background())
	suite.NoError(err)
	suite.Empty(list)

	cfg, err := s.Config(context.Background(), "basic_straddle")
	suite.NoError(err)
	suite.True(cfg.IsNone())
}

func (suite *DescriptorTestSuite) TestMalformedFile() {
	suite.writeFile("broken.json", `{"id":`)

	_, err := suite.s.List(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *DescriptorTestSuite) TestDuplicateIDAcrossFiles() {
	suite.writeFile("a.json", `{"id":"same"}`)
	suite.writeFile("b.yaml", "id: same\n")

	_, err := suite.s.List(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *DescriptorTestSuite) TestConfigUnknownIsNone() {
	cfg, err := suite.s.Config(context.Background(), "unknown")
	suite.NoError(err)
	suite.True(cfg.IsNone())
}

func (suite *DescriptorTestSuite) TestConfigReturnsCopy() {
	suite.writeFile("s.json", `{"id":"s","nested":{"a":1}}`)
	ctx := context.Background()

	first, err := suite.s.Config(ctx, "s")
	suite.Require().NoError(err)
	first.Unwrap()["nested"].(map[string]any)["a"] = 99.0

	second, err := suite.s.Config(ctx, "s")
	suite.Require().NoError(err)
	suite.Equal(1.0, second.Unwrap()["nested"].(map[string]any)["a"])
}

func (suite *DescriptorTestSuite) TestSaveThenListAndConfig() {
	ctx := context.Background()

	desc, err := suite.s.Save(ctx, types.StrategyConfig{"id": " my_strategy ", "name": "Mine", "min_credit": 2.0})
	suite.Require().NoError(err)
	suite.Equal(types.StrategyDescriptor{ID: "my_strategy", Name: "Mine"}, desc)

	list, err := suite.s.List(ctx)
	suite.Require().NoError(err)
	suite.Equal([]types.StrategyDescriptor{{ID: "my_strategy", Name: "Mine"}}, list)

	cfg, err := suite.s.Config(ctx, "my_strategy")
	suite.Require().NoError(err)
	suite.Equal(2.0, cfg.Unwrap()["min_credit"])
	suite.Equal("my_strategy", cfg.Unwrap()["id"])
}

func (suite *DescriptorTestSuite) TestSavedConfigWinsOverFile() {
	suite.writeFile("basic_straddle.json", `{"id":"basic_straddle","name":"From File"}`)
	ctx := context.Background()

	_, err := suite.s.Save(ctx, types.StrategyConfig{"id": "basic_straddle", "name": "Edited"})
	suite.Require().NoError(err)

	list, err := suite.s.List(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal("Edited", list[0].Name)

	cfg, err := suite.s.Config(ctx, "basic_straddle")
	suite.Require().NoError(err)
	suite.Equal("Edited", cfg.Unwrap()["name"])
}

func (suite *DescriptorTestSuite) TestSaveRejectsMissingOrInvalidID() {
	ctx := context.Background()

	_, err := suite.s.Save(ctx, types.StrategyConfig{"name": "no id"})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = suite.s.Save(ctx, types.StrategyConfig{"id": "   "})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = suite.s.Save(ctx, types.StrategyConfig{"id": 12})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = suite.s.Save(ctx, types.StrategyConfig{"id": "../etc/passwd"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	keys, err := suite.docs.Keys(ctx, store.CollectionStrategies)
	suite.Require().NoError(err)
	suite.Empty(keys)
}

func (suite *DescriptorTestSuite) TestSaveMissingIDNeverTouchesStore() {
	ctrl := gomock.NewController(suite.T())
	docs := mocks.NewMockDocumentStore(ctrl)
	s := NewStore(suite.dir, docs, nil)

	docs.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.Save(context.Background(), types.StrategyConfig{"name": "no id"})
	suite.Error(err)
}

func (suite *DescriptorTestSuite) TestSavePersistenceFailure() {
	ctrl := gomock.NewController(suite.T())
	docs := mocks.NewMockDocumentStore(ctrl)
	s := NewStore(suite.dir, docs, nil)

	docs.EXPECT().
		Put(gomock.Any(), store.CollectionStrategies, "s", gomock.Any()).
		Return(errors.Wrap(errors.ErrCodePersistenceFailed, "write failed", stderrors.New("disk full")))

	_, err := s.Save(context.Background(), types.StrategyConfig{"id": "s"})
	suite.True(errors.HasCode(err, errors.ErrCodePersistenceFailed))
}

func (suite *DescriptorTestSuite) TestConfigPersistenceFailure() {
	ctrl := gomock.NewController(suite.T())
	docs := mocks.NewMockDocumentStore(ctrl)
	s := NewStore(suite.dir, docs, nil)

	docs.EXPECT().
		Get(gomock.Any(), store.CollectionStrategies, "s").
		Return(optional.None[store.Document](), errors.New(errors.ErrCodePersistenceFailed, "read failed"))

	_, err := s.Config(context.Background(), "s")
	suite.True(errors.HasCode(err, errors.ErrCodePersistenceFailed))
}

func (suite *DescriptorTestSuite) TestValidateID() {
	suite.NoError(ValidateID("basic_straddle-2"))
	suite.True(errors.HasCode(ValidateID(""), errors.ErrCodeMissingParameter))
	suite.True(errors.HasCode(ValidateID("has space"), errors.ErrCodeInvalidParameter))
}

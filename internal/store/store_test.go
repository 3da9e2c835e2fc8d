package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arvindk1/options-strategy-scanner/internal/config"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// DocumentStoreTestSuite runs the same behaviour checks against every backend
// that can run without external services.
type DocumentStoreTestSuite struct {
	suite.Suite
	newStore func() DocumentStore
	store    DocumentStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &DocumentStoreTestSuite{newStore: func() DocumentStore { return NewMemoryStore() }})
}

func TestDuckDBStoreSuite(t *testing.T) {
	suite.Run(t, &DocumentStoreTestSuite{newStore: func() DocumentStore {
		s, err := NewDuckDBStore(":memory:", nil)
		if err != nil {
			t.Fatalf("failed to open duckdb: %v", err)
		}

		return s
	}})
}

func (suite *DocumentStoreTestSuite) SetupTest() {
	suite.store = suite.newStore()
}

func (suite *DocumentStoreTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func (suite *DocumentStoreTestSuite) TestGetMissingIsNone() {
	got, err := suite.store.Get(context.Background(), CollectionResults, "never_scanned")
	suite.NoError(err)
	suite.True(got.IsNone())
}

func (suite *DocumentStoreTestSuite) TestPutThenGet() {
	ctx := context.Background()
	doc := Document{"id": "basic_straddle", "min_credit": 1.5, "tags": []any{"a", "b"}}

	suite.Require().NoError(suite.store.Put(ctx, CollectionStrategies, "basic_straddle", doc))

	got, err := suite.store.Get(ctx, CollectionStrategies, "basic_straddle")
	suite.Require().NoError(err)
	suite.Require().True(got.IsSome())
	suite.Equal(doc, got.Unwrap())
}

func (suite *DocumentStoreTestSuite) TestPutReplacesWholeDocument() {
	ctx := context.Background()

	suite.Require().NoError(suite.store.Put(ctx, CollectionResults, "s", Document{"a": 1.0, "b": 2.0}))
	suite.Require().NoError(suite.store.Put(ctx, CollectionResults, "s", Document{"c": 3.0}))

	got, err := suite.store.Get(ctx, CollectionResults, "s")
	suite.Require().NoError(err)
	suite.Equal(Document{"c": 3.0}, got.Unwrap())
}

func (suite *DocumentStoreTestSuite) TestCollectionsAreIsolated() {
	ctx := context.Background()

	suite.Require().NoError(suite.store.Put(ctx, CollectionStrategies, "s", Document{"kind": "config"}))
	suite.Require().NoError(suite.store.Put(ctx, CollectionResults, "s", Document{"kind": "result"}))

	cfg, err := suite.store.Get(ctx, CollectionStrategies, "s")
	suite.Require().NoError(err)
	suite.Equal("config", cfg.Unwrap()["kind"])

	res, err := suite.store.Get(ctx, CollectionResults, "s")
	suite.Require().NoError(err)
	suite.Equal("result", res.Unwrap()["kind"])
}

func (suite *DocumentStoreTestSuite) TestKeysSorted() {
	ctx := context.Background()

	for _, key := range []string{"zeta", "alpha", "mid"} {
		suite.Require().NoError(suite.store.Put(ctx, CollectionStrategies, key, Document{"id": key}))
	}

	suite.Require().NoError(suite.store.Put(ctx, CollectionStrategies, "alpha", Document{"id": "alpha", "v": 2.0}))

	keys, err := suite.store.Keys(ctx, CollectionStrategies)
	suite.Require().NoError(err)
	suite.Equal([]string{"alpha", "mid", "zeta"}, keys)

	empty, err := suite.store.Keys(ctx, CollectionResults)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *DocumentStoreTestSuite) TestStoredDocumentIsNotShared() {
	ctx := context.Background()
	doc := Document{"id": "s", "nested": map[string]any{"x": 1.0}}

	suite.Require().NoError(suite.store.Put(ctx, CollectionStrategies, "s", doc))
	doc["nested"].(map[string]any)["x"] = 99.0

	got, err := suite.store.Get(ctx, CollectionStrategies, "s")
	suite.Require().NoError(err)
	suite.Equal(1.0, got.Unwrap()["nested"].(map[string]any)["x"])
}

func (suite *DocumentStoreTestSuite) TestNilDocumentStoredAsEmptyObject() {
	ctx := context.Background()

	suite.Require().NoError(suite.store.Put(ctx, CollectionResults, "s", nil))

	got, err := suite.store.Get(ctx, CollectionResults, "s")
	suite.Require().NoError(err)
	suite.Equal(Document{}, got.Unwrap())
}

type StoreHelpersTestSuite struct {
	suite.Suite
}

func TestStoreHelpersSuite(t *testing.T) {
	suite.Run(t, new(StoreHelpersTestSuite))
}

func (suite *StoreHelpersTestSuite) TestToDocumentAndDecode() {
	type payload struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	}

	doc, err := ToDocument(payload{ID: "x", Score: 2.5})
	suite.Require().NoError(err)
	suite.Equal(Document{"id": "x", "score": 2.5}, doc)

	var out payload
	suite.Require().NoError(Decode(doc, &out))
	suite.Equal(payload{ID: "x", Score: 2.5}, out)
}

func (suite *StoreHelpersTestSuite) TestToDocumentRejectsNonObject() {
	_, err := ToDocument([]int{1, 2})
	suite.Error(err)
}

func (suite *StoreHelpersTestSuite) TestRedisKeys() {
	suite.Equal("scanner:results:basic_straddle", documentKey(CollectionResults, "basic_straddle"))
	suite.Equal("scanner:strategies", collectionKey(CollectionStrategies))
}

func (suite *StoreHelpersTestSuite) TestRedisUnreachableIsPersistenceError() {
	s := NewRedisStore(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer s.Close()

	ctx := context.Background()

	_, err := s.Get(ctx, CollectionResults, "s")
	suite.True(errors.HasCode(err, errors.ErrCodePersistenceFailed))

	err = s.Put(ctx, CollectionResults, "s", Document{"a": 1.0})
	suite.True(errors.HasCode(err, errors.ErrCodePersistenceFailed))

	_, err = s.Keys(ctx, CollectionResults)
	suite.True(errors.HasCode(err, errors.ErrCodePersistenceFailed))
}

func (suite *StoreHelpersTestSuite) TestOpenBackends() {
	ctx := context.Background()

	mem, err := Open(ctx, config.StoreConfig{Backend: "memory"}, nil)
	suite.Require().NoError(err)
	suite.IsType(&MemoryStore{}, mem)

	path := filepath.Join(suite.T().TempDir(), "nested", "scanner.duckdb")
	duck, err := Open(ctx, config.StoreConfig{Backend: "duckdb", DuckDBPath: path}, nil)
	suite.Require().NoError(err)
	suite.IsType(&DuckDBStore{}, duck)
	suite.NoError(duck.Close())

	_, err = Open(ctx, config.StoreConfig{Backend: "firestore"}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *StoreHelpersTestSuite) TestDuckDBPersistsAcrossReopen() {
	ctx := context.Background()
	path := filepath.Join(suite.T().TempDir(), "scanner.duckdb")

	first, err := NewDuckDBStore(path, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(first.Put(ctx, CollectionResults, "s", Document{"scan_id": "abc"}))
	suite.Require().NoError(first.Close())

	second, err := NewDuckDBStore(path, nil)
	suite.Require().NoError(err)
	defer second.Close()

	got, err := second.Get(ctx, CollectionResults, "s")
	suite.Require().NoError(err)
	suite.Equal("abc", got.Unwrap()["scan_id"])
}

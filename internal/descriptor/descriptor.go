// Package descriptor is the strategy descriptor store. Strategy configurations
// come from two places: files in the strategies directory, authored out of
// band, and documents saved through the API into the "strategies" collection.
// A saved document replaces a file with the same id.
package descriptor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/internal/store"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store resolves strategy configurations by id. Nothing is cached: every call
// reads the directory and the document store, so edits are visible at once.
type Store struct {
	dir    string
	docs   store.DocumentStore
	logger *logger.Logger
}

// NewStore creates a descriptor store over dir and docs. A missing dir is
// treated as empty.
func NewStore(dir string, docs store.DocumentStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Store{dir: dir, docs: docs, logger: log}
}

// ValidateID checks that id can be used as a strategy key and in URLs.
func ValidateID(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeMissingParameter, "strategy config requires an id")
	}

	if !validID.MatchString(id) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "strategy id %q may only contain letters, digits, '_' and '-'", id)
	}

	return nil
}

// List returns one descriptor per known strategy id, sorted by id.
func (s *Store) List(ctx context.Context) ([]types.StrategyDescriptor, error) {
	configs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	descriptors := make([]types.StrategyDescriptor, 0, len(ids))
	for _, id := range ids {
		descriptors = append(descriptors, configs[id].Descriptor())
	}

	return descriptors, nil
}

// Config returns the configuration stored for id, or None when there is none.
// The returned map is a copy.
func (s *Store) Config(ctx context.Context, id string) (optional.Option[types.StrategyConfig], error) {
	saved, err := s.saved(ctx, id)
	if err != nil {
		return optional.None[types.StrategyConfig](), err
	}

	if saved.IsSome() {
		return saved, nil
	}

	files, err := s.loadFiles()
	if err != nil {
		return optional.None[types.StrategyConfig](), err
	}

	cfg, ok := files[id]
	if !ok {
		return optional.None[types.StrategyConfig](), nil
	}

	return optional.Some(cfg.Clone()), nil
}

// Save upserts a configuration keyed by its id. Nothing is written when the
// id is missing or invalid.
func (s *Store) Save(ctx context.Context, cfg types.StrategyConfig) (types.StrategyDescriptor, error) {
	raw, present := cfg[types.ConfigKeyID]
	if !present {
		return types.StrategyDescriptor{}, errors.New(errors.ErrCodeMissingParameter, "strategy config requires an id")
	}

	if _, isString := raw.(string); !isString {
		return types.StrategyDescriptor{}, errors.New(errors.ErrCodeInvalidParameter, "strategy config id must be a string")
	}

	id := cfg.ID()
	if err := ValidateID(id); err != nil {
		return types.StrategyDescriptor{}, err
	}

	doc := store.Document(cfg.Clone())
	doc[types.ConfigKeyID] = id

	if err := s.docs.Put(ctx, store.CollectionStrategies, id, doc); err != nil {
		s.logger.Error("Failed to save strategy config", zap.String("strategy", id), zap.Error(err))

		return types.StrategyDescriptor{}, err
	}

	s.logger.Info("Saved strategy config", zap.String("strategy", id))

	return types.StrategyConfig(doc).Descriptor(), nil
}

func (s *Store) saved(ctx context.Context, id string) (optional.Option[types.StrategyConfig], error) {
	doc, err := s.docs.Get(ctx, store.CollectionStrategies, id)
	if err != nil {
		return optional.None[types.StrategyConfig](), err
	}

	if doc.IsNone() {
		return optional.None[types.StrategyConfig](), nil
	}

	return optional.Some(types.StrategyConfig(doc.Unwrap())), nil
}

// all merges file and saved configurations, saved ones winning.
func (s *Store) all(ctx context.Context) (map[string]types.StrategyConfig, error) {
	configs, err := s.loadFiles()
	if err != nil {
		return nil, err
	}

	keys, err := s.docs.Keys(ctx, store.CollectionStrategies)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		saved, err := s.saved(ctx, key)
		if err != nil {
			return nil, err
		}

		if saved.IsSome() {
			configs[key] = saved.Unwrap()
		}
	}

	return configs, nil
}

// loadFiles reads every .json, .yaml and .yml file of the strategies
// directory. The id is the file's "id" field, or the file name without
// extension when the field is absent.
func (s *Store) loadFiles() (map[string]types.StrategyConfig, error) {
	configs := make(map[string]types.StrategyConfig)

	if s.dir == "" {
		return configs, nil
	}

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return configs, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read strategies dir %s", s.dir)
	}

	sources := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())

		cfg, err := readConfigFile(path, ext)
		if err != nil {
			return nil, err
		}

		if cfg.ID() == "" {
			cfg[types.ConfigKeyID] = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}

		id := cfg.ID()
		if err := ValidateID(id); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid strategy id in %s", path)
		}

		if previous, dup := sources[id]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "strategy %s defined in both %s and %s", id, previous, path)
		}

		cfg[types.ConfigKeyID] = id
		sources[id] = path
		configs[id] = cfg
	}

	return configs, nil
}

func readConfigFile(path, ext string) (types.StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read %s", path)
	}

	var cfg types.StrategyConfig

	if ext == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse %s", path)
	}

	if cfg == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "%s is empty", path)
	}

	return cfg, nil
}

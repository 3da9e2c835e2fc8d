package store

import (
	"context"
	"sort"

	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "scanner"

// RedisStore keeps each document as a JSON string under scanner:{collection}:{key}
// and tracks the keys of a collection in the set scanner:{collection}.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(opt *redis.Options) *RedisStore {
	return &RedisStore{Client: redis.NewClient(opt)}
}

func documentKey(collection, key string) string {
	return redisKeyPrefix + ":" + collection + ":" + key
}

func collectionKey(collection string) string {
	return redisKeyPrefix + ":" + collection
}

func (s *RedisStore) Put(ctx context.Context, collection, key string, doc Document) error {
	body, err := encode(doc)
	if err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to encode %s/%s", collection, key)
	}

	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, documentKey(collection, key), body, 0)
	pipe.SAdd(ctx, collectionKey(collection), key)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to write %s/%s", collection, key)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, collection, key string) (optional.Option[Document], error) {
	b, err := s.Client.Get(ctx, documentKey(collection, key)).Bytes()
	if err == redis.Nil {
		return optional.None[Document](), nil
	}

	if err != nil {
		return optional.None[Document](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to read %s/%s", collection, key)
	}

	doc, err := decodeBytes(b)
	if err != nil {
		return optional.None[Document](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to decode %s/%s", collection, key)
	}

	return optional.Some(doc), nil
}

func (s *RedisStore) Keys(ctx context.Context, collection string) ([]string, error) {
	keys, err := s.Client.SMembers(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to list %s", collection)
	}

	sort.Strings(keys)

	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}

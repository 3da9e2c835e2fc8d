package store

import (
	"context"
	"sort"
	"sync"

	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/moznion/go-optional"
)

// MemoryStore keeps documents in process memory. Documents are stored as
// encoded JSON so callers never share maps with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:   sync.RWMutex{},
		data: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, collection, key string, doc Document) error {
	body, err := encode(doc)
	if err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to encode %s/%s", collection, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string][]byte)
	}

	s.data[collection][key] = body

	return nil
}

func (s *MemoryStore) Get(_ context.Context, collection, key string) (optional.Option[Document], error) {
	s.mu.RLock()
	body, ok := s.data[collection][key]
	s.mu.RUnlock()

	if !ok {
		return optional.None[Document](), nil
	}

	doc, err := decodeBytes(body)
	if err != nil {
		return optional.None[Document](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to decode %s/%s", collection, key)
	}

	return optional.Some(doc), nil
}

func (s *MemoryStore) Keys(_ context.Context, collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[collection]))
	for k := range s.data[collection] {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

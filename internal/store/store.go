// Package store provides the key/document store that holds user-edited
// strategy configurations and the latest scan snapshot per strategy.
//
// Every backend stores documents as JSON and replaces a document wholesale on
// Put. Concurrent writers to the same key are last-writer-wins.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moznion/go-optional"
)

const (
	// CollectionStrategies holds strategy configuration documents keyed by strategy id.
	CollectionStrategies = "strategies"
	// CollectionResults holds the latest ScanResponse keyed by strategy id.
	CollectionResults = "results"
)

// Document is a JSON object as stored.
type Document map[string]any

// DocumentStore is the persistence capability consumed by the descriptor
// store and the result store.
type DocumentStore interface {
	// Put replaces the document stored under collection/key.
	Put(ctx context.Context, collection, key string, doc Document) error
	// Get returns None when nothing is stored under collection/key. A missing
	// document is not an error.
	Get(ctx context.Context, collection, key string) (optional.Option[Document], error)
	// Keys lists the keys of a collection in ascending order.
	Keys(ctx context.Context, collection string) ([]string, error)
	Close() error
}

// ToDocument converts any JSON-encodable value into a Document.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}

	return doc, nil
}

// Decode converts a Document into out, which must be a pointer.
func Decode(doc Document, out any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}

func encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}

	return json.Marshal(doc)
}

func decodeBytes(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

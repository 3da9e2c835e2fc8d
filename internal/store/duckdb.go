package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/arvindk1/options-strategy-scanner/internal/logger"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const documentsTable = "documents"

// DuckDBStore persists documents in a single DuckDB table keyed by
// (collection, doc_key). An empty path opens an in-memory database.
type DuckDBStore struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
}

// NewDuckDBStore opens (creating if needed) the database at path.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to create data directory", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		log.Error("Failed to open database", zap.String("path", path), zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to connect to database", err)
	}

	s := &DuckDBStore{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: log,
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			doc_key TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (collection, doc_key)
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to create documents table", err)
	}

	return nil
}

func (s *DuckDBStore) Put(ctx context.Context, collection, key string, doc Document) error {
	body, err := encode(doc)
	if err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to encode %s/%s", collection, key)
	}

	query, args, err := s.sq.
		Insert(documentsTable).
		Columns("collection", "doc_key", "body", "updated_at").
		Values(collection, key, string(body), time.Now().UTC()).
		Suffix("ON CONFLICT (collection, doc_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build upsert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to write %s/%s", collection, key)
	}

	return nil
}

func (s *DuckDBStore) Get(ctx context.Context, collection, key string) (optional.Option[Document], error) {
	query, args, err := s.sq.
		Select("body").
		From(documentsTable).
		Where(squirrel.And{
			squirrel.Eq{"collection": collection},
			squirrel.Eq{"doc_key": key},
		}).
		ToSql()
	if err != nil {
		return optional.None[Document](), errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build query", err)
	}

	var body string

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if err == sql.ErrNoRows {
		return optional.None[Document](), nil
	}

	if err != nil {
		return optional.None[Document](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to read %s/%s", collection, key)
	}

	doc, err := decodeBytes([]byte(body))
	if err != nil {
		return optional.None[Document](), errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to decode %s/%s", collection, key)
	}

	return optional.Some(doc), nil
}

func (s *DuckDBStore) Keys(ctx context.Context, collection string) ([]string, error) {
	query, args, err := s.sq.
		Select("doc_key").
		From(documentsTable).
		Where(squirrel.Eq{"collection": collection}).
		OrderBy("doc_key ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to build query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to list %s", collection)
	}
	defer rows.Close()

	keys := []string{}

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to scan %s key", collection)
		}

		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to list %s", collection)
	}

	return keys, nil
}

// Close releases database resources.
func (s *DuckDBStore) Close() error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil

	return nil
}

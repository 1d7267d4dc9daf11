package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements catalog.CollectionStore using PostgreSQL. It keeps the
// same one-resource-per-collection layout as the filesystem store: a single
// row per kind whose documents column holds the whole serialized array.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS collections (
//	    entity     TEXT PRIMARY KEY,
//	    documents  JSONB NOT NULL DEFAULT '[]'::jsonb,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Store struct {
	db     DBTX
	logger *slog.Logger
}

// New creates a new PostgreSQL collection store
func New(db DBTX) catalog.CollectionStore {
	return &Store{db: db, logger: slog.Default()}
}

// EnsureSchema creates the collections table when it does not exist yet.
// Deployments that run migrations externally can skip it.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			entity     TEXT PRIMARY KEY,
			documents  JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating collections table: %w", err)
	}
	return nil
}

// NewWithPool creates a new PostgreSQL collection store with connection pool
func NewWithPool(pool *pgxpool.Pool) catalog.CollectionStore {
	return &Store{db: pool, logger: slog.Default()}
}

// Error handling helper
func (s *Store) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("collection row already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required column %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("collections table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (s *Store) LoadAll(ctx context.Context, kind catalog.Kind) ([]catalog.Document, error) {
	query := `SELECT documents FROM collections WHERE entity = $1`

	var data []byte
	err := s.db.QueryRow(ctx, query, kind.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []catalog.Document{}, nil
		}
		return nil, s.handlePostgresError("load collection", err)
	}

	var docs []catalog.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		s.logger.Warn("collection row is not a JSON array, treating as empty",
			"kind", kind, "error", err)
		return []catalog.Document{}, nil
	}
	if docs == nil {
		docs = []catalog.Document{}
	}
	return docs, nil
}

func (s *Store) SaveAll(ctx context.Context, kind catalog.Kind, docs []catalog.Document) error {
	if docs == nil {
		docs = []catalog.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding %s collection: %w", kind, err)
	}

	query := `
		INSERT INTO collections (entity, documents, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (entity)
		DO UPDATE SET documents = EXCLUDED.documents, updated_at = now()`

	if _, err := s.db.Exec(ctx, query, kind.String(), data); err != nil {
		return s.handlePostgresError("save collection", err)
	}
	return nil
}

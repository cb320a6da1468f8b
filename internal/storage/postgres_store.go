package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/rewear/backend/internal/filter"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps documents as JSONB rows in a single documents table,
// one row per document, tagged with its collection.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresStore applies pending migrations and opens a connection pool.
// dsn must be a postgres:// URL.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := migrateUp(dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresStore{pool: pool, name: pool.Config().ConnConfig.Database}, nil
}

func migrateUp(dsn string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("postgres: migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, collection string, doc Document) (ID, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("postgres: encode document: %w", err)
	}

	id := uuid.New().String()
	const q = `INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, q, id, collection, body); err != nil {
		return "", err
	}
	return ID(id), nil
}

func (s *PostgresStore) GetDocuments(ctx context.Context, collection string, f filter.Expr, limit int) ([]Record, error) {
	where, args, next := SQLWhere(f, 2)
	q := fmt.Sprintf("SELECT id, doc FROM documents WHERE collection = $1 AND %s ORDER BY seq", where)
	args = append([]any{collection}, args...)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", next)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var fields Document
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("postgres: decode document %s: %w", id, err)
		}
		out = append(out, Record{ID: ID(id), Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) CollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *PostgresStore) Name() string {
	return s.name
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

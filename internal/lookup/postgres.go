package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"biovalid/pkg/domain"
)

const defaultPostgresDSN = "postgres://localhost/biovalid?sslmode=disable"

// PostgresStore persists cache entries in Postgres, mirroring the SQLite
// store's single-table layout for deployments that share a cache across
// validator instances.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the entry table using the provided DSN (falls
// back to a local default).
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS lookup_entries (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (kind, key)
	)`); err != nil {
		return nil, fmt.Errorf("create entries table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// LoadTerms returns all persisted term entries.
func (s *PostgresStore) LoadTerms(ctx context.Context) (map[string]domain.TermResult, error) {
	out := make(map[string]domain.TermResult)
	err := s.load(ctx, kindTerm, func(key string, payload []byte) error {
		var res domain.TermResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return fmt.Errorf("decode term %s: %w", key, err)
		}
		out[key] = res
		return nil
	})
	return out, err
}

// LoadSamples returns all persisted sample entries.
func (s *PostgresStore) LoadSamples(ctx context.Context) (map[string]domain.ExternalSample, error) {
	out := make(map[string]domain.ExternalSample)
	err := s.load(ctx, kindSample, func(key string, payload []byte) error {
		var res domain.ExternalSample
		if err := json.Unmarshal(payload, &res); err != nil {
			return fmt.Errorf("decode sample %s: %w", key, err)
		}
		out[key] = res
		return nil
	})
	return out, err
}

func (s *PostgresStore) load(ctx context.Context, kind string, visit func(key string, payload []byte) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, payload FROM lookup_entries WHERE kind = $1`, kind)
	if err != nil {
		return fmt.Errorf("select entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			return fmt.Errorf("scan entry: %w", err)
		}
		if err := visit(key, payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PutTerm upserts one term entry.
func (s *PostgresStore) PutTerm(ctx context.Context, key string, res domain.TermResult) error {
	return s.put(ctx, kindTerm, key, res)
}

// PutSample upserts one sample entry.
func (s *PostgresStore) PutSample(ctx context.Context, key string, res domain.ExternalSample) error {
	return s.put(ctx, kindSample, key, res)
}

func (s *PostgresStore) put(ctx context.Context, kind, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, key, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO lookup_entries (kind, key, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (kind, key) DO UPDATE SET payload = excluded.payload`,
		kind, key, data); err != nil {
		return fmt.Errorf("upsert %s %s: %w", kind, key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

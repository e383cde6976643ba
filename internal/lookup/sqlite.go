package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"biovalid/pkg/domain"
)

// SQLiteStore persists cache entries as JSON payloads in a single table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the entry table at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "biovalid-cache.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS lookup_entries (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (kind, key)
	)`); err != nil {
		return nil, fmt.Errorf("create entries table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// LoadTerms returns all persisted term entries.
func (s *SQLiteStore) LoadTerms(ctx context.Context) (map[string]domain.TermResult, error) {
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
func (s *SQLiteStore) LoadSamples(ctx context.Context) (map[string]domain.ExternalSample, error) {
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

func (s *SQLiteStore) load(ctx context.Context, kind string, visit func(key string, payload []byte) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, payload FROM lookup_entries WHERE kind = ?`, kind)
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
func (s *SQLiteStore) PutTerm(ctx context.Context, key string, res domain.TermResult) error {
	return s.put(ctx, kindTerm, key, res)
}

// PutSample upserts one sample entry.
func (s *SQLiteStore) PutSample(ctx context.Context, key string, res domain.ExternalSample) error {
	return s.put(ctx, kindSample, key, res)
}

func (s *SQLiteStore) put(ctx context.Context, kind, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, key, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO lookup_entries (kind, key, payload) VALUES (?, ?, ?)
		 ON CONFLICT (kind, key) DO UPDATE SET payload = excluded.payload`,
		kind, key, data); err != nil {
		return fmt.Errorf("upsert %s %s: %w", kind, key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

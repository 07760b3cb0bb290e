package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Loads for several worksheets write concurrently.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	payload TEXT NOT NULL,
	cached_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		payload  string
		cachedAt string
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT payload, cached_at FROM cache_entries WHERE cache_key = ?;`,
		key,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("query cache entry: %w", err)
	}

	var doc vocab.RawDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	at, err := time.Parse(time.RFC3339Nano, cachedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse cached_at for %s: %w", key, err)
	}

	return Entry{Key: key, Document: &doc, CachedAt: at}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry Entry) error {
	if entry.Key == "" {
		return errors.New("cache key is required")
	}
	if entry.Document == nil {
		return errors.New("cache document is required")
	}

	payload, err := json.Marshal(entry.Document)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	const upsert = `
INSERT INTO cache_entries (cache_key, file_name, payload, cached_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
	file_name = excluded.file_name,
	payload = excluded.payload,
	cached_at = excluded.cached_at;`

	if _, err := s.db.ExecContext(
		ctx,
		upsert,
		entry.Key,
		entry.Document.FileName,
		string(payload),
		entry.CachedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?;`, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries;`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}
	return int(affected), nil
}

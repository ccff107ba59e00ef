// Package postgres keeps backing objects as rows of a PostgreSQL table so
// several service instances can share one set of extents.
package postgres

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"leaguestore/internal/blob/core"
)

var _ core.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/leaguestore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store implements core.Store on the extents table.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN) and ensures the extents table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS extents (
		object_key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure extents table: %w", err)
	}
	return nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO extents (object_key, payload, content_type, updated_at) VALUES ($1,$2,$3,$4) ON CONFLICT (object_key) DO UPDATE SET payload=EXCLUDED.payload, content_type=EXCLUDED.content_type, updated_at=EXCLUDED.updated_at`,
		key, payload, opts.ContentType, now); err != nil {
		return core.Info{}, fmt.Errorf("upsert %s: %w", key, err)
	}
	return infoFor(key, payload, opts.ContentType, now), nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error) {
	info, payload, err := s.read(ctx, key)
	if err != nil {
		return core.Info{}, nil, err
	}
	return info, io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	info, _, err := s.read(ctx, key)
	return info, err
}

func (s *Store) read(ctx context.Context, key string) (core.Info, []byte, error) {
	var (
		payload     []byte
		contentType string
		updated     time.Time
	)
	err := s.db.QueryRowContext(ctx, `SELECT payload, content_type, updated_at FROM extents WHERE object_key = $1`, key).
		Scan(&payload, &contentType, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("select %s: %w", key, err)
	}
	return infoFor(key, payload, contentType, updated), payload, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extents WHERE object_key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT object_key, payload, content_type, updated_at FROM extents`)
	if err != nil {
		return nil, fmt.Errorf("select extents: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var infos []core.Info
	for rows.Next() {
		var (
			key, contentType string
			payload          []byte
			updated          time.Time
		)
		if err := rows.Scan(&key, &payload, &contentType, &updated); err != nil {
			return nil, fmt.Errorf("scan extents: %w", err)
		}
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, infoFor(key, payload, contentType, updated))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extents: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func infoFor(key string, payload []byte, contentType string, updated time.Time) core.Info {
	sum := sha256.Sum256(payload)
	return core.Info{
		Key:          key,
		Size:         int64(len(payload)),
		ContentType:  contentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: updated.UTC(),
	}
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

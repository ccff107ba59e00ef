// Package sqlite keeps backing objects as rows of an embedded SQLite table,
// one row per object key.
package sqlite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"leaguestore/internal/blob/core"
)

// Store implements core.Store on a single SQLite table. Put is an upsert, so
// the row for a key is replaced in one statement.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database file at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "leaguestore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS extents (
		object_key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create extents table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO extents(object_key,payload,content_type,updated_at) VALUES(?,?,?,?)
		ON CONFLICT(object_key) DO UPDATE SET payload=excluded.payload, content_type=excluded.content_type, updated_at=excluded.updated_at`,
		key, payload, opts.ContentType, now.UnixNano()); err != nil {
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
		updated     int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT payload, content_type, updated_at FROM extents WHERE object_key = ?`, key).
		Scan(&payload, &contentType, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("select %s: %w", key, err)
	}
	return infoFor(key, payload, contentType, time.Unix(0, updated).UTC()), payload, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extents WHERE object_key = ?`, key)
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
			updated          int64
		)
		if err := rows.Scan(&key, &payload, &contentType, &updated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, infoFor(key, payload, contentType, time.Unix(0, updated).UTC()))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

func infoFor(key string, payload []byte, contentType string, updated time.Time) core.Info {
	sum := sha256.Sum256(payload)
	return core.Info{
		Key:          key,
		Size:         int64(len(payload)),
		ContentType:  contentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: updated,
	}
}

// Package store binds one entity kind to its backing object: every Load reads
// and decodes the whole object, every Save encodes and rewrites it.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"leaguestore/internal/blob"
	"leaguestore/internal/codec"
	"leaguestore/pkg/domain"
)

const contentType = "text/csv; charset=utf-8"

// Store is the record store for one entity kind. It holds no cache.
type Store[R any] struct {
	blob   blob.Store
	key    string
	schema *domain.Schema[R]

	lockWrites bool
	mu         sync.Mutex
}

var _ domain.ExtentStore[domain.Team] = (*Store[domain.Team])(nil)

// Option configures a Store.
type Option func(*options)

type options struct {
	writerLock bool
}

// WithWriterLock serializes BeginWrite sections so a load-apply-save span
// cannot interleave with another writer on the same entity.
func WithWriterLock() Option {
	return func(o *options) { o.writerLock = true }
}

// New binds schema to the object at key in b.
func New[R any](b blob.Store, key string, schema *domain.Schema[R], opts ...Option) *Store[R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[R]{blob: b, key: key, schema: schema, lockWrites: o.writerLock}
}

// Key returns the backing object key.
func (s *Store[R]) Key() string { return s.key }

// Schema returns the entity schema.
func (s *Store[R]) Schema() *domain.Schema[R] { return s.schema }

// Load reads the complete extent. A missing or unreadable object is
// domain.StorageUnavailable; malformed contents are domain.CodecError.
func (s *Store[R]) Load(ctx context.Context) ([]R, error) {
	_, rc, err := s.blob.Get(ctx, s.key)
	if err != nil {
		return nil, s.unavailable("load", err)
	}
	defer func() { _ = rc.Close() }()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, s.unavailable("load", err)
	}
	return codec.Decode(s.schema, raw)
}

// Save replaces the stored extent. The previous contents are discarded even
// if another operation loaded them after this one did.
func (s *Store[R]) Save(ctx context.Context, extent []R) error {
	raw, err := codec.Encode(s.schema, extent)
	if err != nil {
		return fmt.Errorf("encode %s extent: %w", s.schema.Entity, err)
	}
	if _, err := s.blob.Put(ctx, s.key, bytes.NewReader(raw), blob.PutOptions{ContentType: contentType}); err != nil {
		return s.unavailable("save", err)
	}
	return nil
}

// Init writes a header-only object when none exists yet.
func (s *Store[R]) Init(ctx context.Context) (bool, error) {
	_, err := s.blob.Head(ctx, s.key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, blob.ErrNotFound) {
		return false, s.unavailable("init", err)
	}
	if err := s.Save(ctx, nil); err != nil {
		return false, err
	}
	return true, nil
}

// BeginWrite starts a write section and returns its release func. Without
// WithWriterLock it does not block.
func (s *Store[R]) BeginWrite() func() {
	if !s.lockWrites {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store[R]) unavailable(op string, err error) error {
	return domain.StorageUnavailable{Entity: s.schema.Entity, Op: op, Key: s.key, Err: err}
}

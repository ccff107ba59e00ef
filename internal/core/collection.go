package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"leaguestore/internal/query"
	"leaguestore/pkg/domain"
)

// MutateRequest is the single write call shape shared by every adapter.
// ID names the target for update, replace and delete; Body carries column
// values for create, update and replace.
type MutateRequest struct {
	Operation domain.Operation
	ID        string
	Body      domain.Fields
}

// writeSerializer is implemented by extent stores that can hold a writer
// lock across a load-apply-save span.
type writeSerializer interface {
	BeginWrite() func()
}

// Collection runs the read and write pipelines for one entity kind. It keeps
// no records between calls: each operation loads the whole extent.
type Collection[R any] struct {
	schema       *domain.Schema[R]
	store        domain.ExtentStore[R]
	logger       *zap.SugaredLogger
	metrics      MetricsRecorder
	defaultLimit int
	// writeMu is set by WithWriterLock for stores that cannot serialize
	// writers themselves.
	writeMu *sync.Mutex
}

// NewCollection binds a schema to its extent store.
func NewCollection[R any](schema *domain.Schema[R], store domain.ExtentStore[R], opts ...Option) *Collection[R] {
	cfg := newConfig(opts)
	return newCollection(schema, store, cfg)
}

func newCollection[R any](schema *domain.Schema[R], store domain.ExtentStore[R], cfg config) *Collection[R] {
	c := &Collection[R]{
		schema:       schema,
		store:        store,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		defaultLimit: cfg.defaultLimit,
	}
	if _, ok := store.(writeSerializer); !ok && cfg.writerLock {
		c.writeMu = new(sync.Mutex)
	}
	return c
}

// Schema returns the entity schema.
func (c *Collection[R]) Schema() *domain.Schema[R] { return c.schema }

// Entity returns the entity kind.
func (c *Collection[R]) Entity() domain.EntityType { return c.schema.Entity }

// Query loads the extent and applies filter, sort and pagination.
func (c *Collection[R]) Query(ctx context.Context, p query.Params) (out []R, err error) {
	defer c.observe(ctx, "query", "", time.Now(), &err)
	if p.Limit == nil {
		p.Limit = query.IntPtr(c.defaultLimit)
	}
	extent, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Run(c.schema, extent, p)
}

// All returns the complete extent.
func (c *Collection[R]) All(ctx context.Context) (out []R, err error) {
	defer c.observe(ctx, "all", "", time.Now(), &err)
	return c.store.Load(ctx)
}

// Get returns the record whose identity equals id.
func (c *Collection[R]) Get(ctx context.Context, id string) (out R, err error) {
	defer c.observe(ctx, "get", id, time.Now(), &err)
	extent, err := c.store.Load(ctx)
	if err != nil {
		return out, err
	}
	i := c.indexOf(extent, id)
	if i < 0 {
		return out, domain.NotFound{Entity: c.schema.Entity, ID: id}
	}
	return extent[i], nil
}

// Mutate dispatches a write request to the matching pipeline.
func (c *Collection[R]) Mutate(ctx context.Context, req MutateRequest) (R, error) {
	switch req.Operation {
	case domain.OpCreate:
		return c.Create(ctx, req.Body)
	case domain.OpUpdate:
		return c.Update(ctx, req.ID, req.Body)
	case domain.OpReplace:
		return c.Replace(ctx, req.ID, req.Body)
	case domain.OpDelete:
		return c.Delete(ctx, req.ID)
	default:
		var zero R
		return zero, domain.ValidationError{Entity: c.schema.Entity, Fields: []domain.FieldError{
			{Field: "operation", Reason: fmt.Sprintf("unsupported operation %q", req.Operation)},
		}}
	}
}

// Create appends a new record. The identity must not exist yet.
func (c *Collection[R]) Create(ctx context.Context, body domain.Fields) (out R, err error) {
	id := body[c.schema.Identity]
	defer c.observe(ctx, string(domain.OpCreate), id, time.Now(), &err)
	if err := validate(c.schema, domain.OpCreate, id, body); err != nil {
		return out, err
	}
	release := c.beginWrite()
	defer release()

	extent, err := c.store.Load(ctx)
	if err != nil {
		return out, err
	}
	if c.indexOf(extent, id) >= 0 {
		return out, domain.AlreadyExists{Entity: c.schema.Entity, ID: id}
	}
	rec := c.schema.FromFields(body)
	next := make([]R, len(extent), len(extent)+1)
	copy(next, extent)
	next = append(next, rec)
	if err := c.store.Save(ctx, next); err != nil {
		return out, err
	}
	return rec, nil
}

// Update merges the supplied fields into the record named by id. The
// identity is pinned to id whatever the body says.
func (c *Collection[R]) Update(ctx context.Context, id string, body domain.Fields) (out R, err error) {
	defer c.observe(ctx, string(domain.OpUpdate), id, time.Now(), &err)
	return c.rewrite(ctx, domain.OpUpdate, id, body, func(current R) R {
		next := current
		for name, value := range body {
			if name == c.schema.Identity {
				continue
			}
			c.schema.Set(&next, name, value)
		}
		return next
	})
}

// Replace swaps every field of the record named by id for the body. The
// identity and any protected columns keep their stored values.
func (c *Collection[R]) Replace(ctx context.Context, id string, body domain.Fields) (out R, err error) {
	defer c.observe(ctx, string(domain.OpReplace), id, time.Now(), &err)
	return c.rewrite(ctx, domain.OpReplace, id, body, func(current R) R {
		next := c.schema.FromFields(body)
		for _, name := range c.schema.Protected {
			stored, _ := c.schema.Value(current, name)
			c.schema.Set(&next, name, stored)
		}
		c.schema.Set(&next, c.schema.Identity, id)
		return next
	})
}

func (c *Collection[R]) rewrite(ctx context.Context, op domain.Operation, id string, body domain.Fields, apply func(R) R) (out R, err error) {
	if err := validate(c.schema, op, id, body); err != nil {
		return out, err
	}
	release := c.beginWrite()
	defer release()

	extent, err := c.store.Load(ctx)
	if err != nil {
		return out, err
	}
	i := c.indexOf(extent, id)
	if i < 0 {
		return out, domain.NotFound{Entity: c.schema.Entity, ID: id}
	}
	next := make([]R, len(extent))
	copy(next, extent)
	next[i] = apply(extent[i])
	if err := c.store.Save(ctx, next); err != nil {
		return out, err
	}
	return next[i], nil
}

// Delete removes the record named by id and returns it.
func (c *Collection[R]) Delete(ctx context.Context, id string) (out R, err error) {
	defer c.observe(ctx, string(domain.OpDelete), id, time.Now(), &err)
	if err := validate(c.schema, domain.OpDelete, id, nil); err != nil {
		return out, err
	}
	release := c.beginWrite()
	defer release()

	extent, err := c.store.Load(ctx)
	if err != nil {
		return out, err
	}
	i := c.indexOf(extent, id)
	if i < 0 {
		return out, domain.NotFound{Entity: c.schema.Entity, ID: id}
	}
	removed := extent[i]
	next := make([]R, 0, len(extent)-1)
	next = append(next, extent[:i]...)
	next = append(next, extent[i+1:]...)
	if err := c.store.Save(ctx, next); err != nil {
		return out, err
	}
	return removed, nil
}

func (c *Collection[R]) indexOf(extent []R, id string) int {
	for i := range extent {
		if c.schema.ID(extent[i]) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[R]) beginWrite() func() {
	if ws, ok := c.store.(writeSerializer); ok {
		return ws.BeginWrite()
	}
	if c.writeMu != nil {
		c.writeMu.Lock()
		return c.writeMu.Unlock
	}
	return func() {}
}

func (c *Collection[R]) observe(ctx context.Context, op, id string, started time.Time, errp *error) {
	err := *errp
	elapsed := time.Since(started)
	name := string(c.schema.Entity) + "." + op
	c.metrics.Observe(ctx, name, err == nil, elapsed)

	kind := domain.KindOf(err)
	fields := []any{"entity", c.schema.Entity, "op", op, "duration", elapsed}
	if id != "" {
		fields = append(fields, "id", id)
	}
	switch kind {
	case domain.KindNone:
		if op == "query" || op == "get" || op == "all" {
			c.logger.Debugw("read", fields...)
			return
		}
		c.logger.Infow("mutation applied", fields...)
	case domain.KindCodec, domain.KindStorage, domain.KindInternal:
		c.logger.Errorw("operation failed", append(fields, "kind", kind, "error", err)...)
	default:
		c.logger.Warnw("operation rejected", append(fields, "kind", kind, "error", err)...)
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"leaguestore/internal/blob/core"
	"leaguestore/internal/infra/persistence/postgres/testutil"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresTable(t *testing.T) {
	store, conn := newStubStore(t)
	if store.Driver() != core.DriverPostgres {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	if store.DB() == nil {
		t.Fatal("expected database handle")
	}
	if len(conn.Execs) == 0 || !strings.Contains(conn.Execs[0], "CREATE TABLE IF NOT EXISTS extents") {
		t.Fatalf("expected DDL first, got %v", conn.Execs)
	}
}

func TestNewStorePropagatesOpenAndPingErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("dial") })
	if _, err := NewStore(context.Background(), "postgres://x"); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestStorePutGetReplaceDelete(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if _, err := store.Put(ctx, "players.csv", strings.NewReader("a"), core.PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	put, err := store.Put(ctx, "players.csv", strings.NewReader("bb"), core.PutOptions{ContentType: "text/csv"})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if len(conn.Tables["extents"]) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(conn.Tables["extents"]))
	}
	info, rc, err := store.Get(ctx, "players.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "bb" || info.ETag != put.ETag || info.ContentType != "text/csv" {
		t.Fatalf("unexpected get %q %+v", b, info)
	}
	if ok, err := store.Delete(ctx, "players.csv"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "players.csv"); err != nil || ok {
		t.Fatalf("second delete should be false: %v %v", ok, err)
	}
	if _, err := store.Head(ctx, "players.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreListFiltersPrefix(t *testing.T) {
	ctx := context.Background()
	store, _ := newStubStore(t)
	for _, key := range []string{"x/teams.csv", "y/games.csv", "x/games.csv"} {
		if _, err := store.Put(ctx, key, strings.NewReader(key), core.PutOptions{}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	list, err := store.List(ctx, "x/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "x/games.csv" || list[1].Key != "x/teams.csv" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestStoreSurfacesDriverErrors(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	conn.FailExec = true
	if _, err := store.Put(ctx, "teams.csv", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected put error")
	}
	conn.FailExec = false
	conn.FailQuery = true
	if _, _, err := store.Get(ctx, "teams.csv"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected query error, got %v", err)
	}
	if _, err := store.List(ctx, ""); err == nil {
		t.Fatalf("expected list error")
	}
}

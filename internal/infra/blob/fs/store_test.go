package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leaguestore/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetHeadListDelete(t *testing.T) { //nolint:cyclop
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "alpha/teams.csv", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/csv"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "alpha/teams.csv" || info.Size != 5 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	h, err := store.Head(ctx, "alpha/teams.csv")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.ETag != info.ETag || h.Size != 5 {
		t.Fatalf("head mismatch %+v vs %+v", h, info)
	}
	_, rc, err := store.Get(ctx, "alpha/teams.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("unexpected body %q", b)
	}
	list, err := store.List(ctx, "alpha/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "alpha/teams.csv" {
		t.Fatalf("unexpected list %+v", list)
	}
	ok, err := store.Delete(ctx, "alpha/teams.csv")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "alpha/teams.csv")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStore_PutReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "teams.csv", strings.NewReader("first"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := store.Put(ctx, "teams.csv", strings.NewReader("second!"), core.PutOptions{})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if second.Size != 7 {
		t.Fatalf("unexpected size %d", second.Size)
	}
	b, err := os.ReadFile(filepath.Join(store.Root(), "teams.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "second!" {
		t.Fatalf("expected replaced content, got %q", b)
	}
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestStore_ReadsPreexistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "players.csv"), []byte("PLAYER_NAME\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, rc, err := store.Get(context.Background(), "players.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if info.Size != int64(len("PLAYER_NAME\n")) {
		t.Fatalf("unexpected size %d", info.Size)
	}
}

func TestStore_MissingKeyIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, _, err := store.Get(ctx, "games.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
	if _, err := store.Head(ctx, "games.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Head, got %v", err)
	}
}

func TestStore_PathTraversal(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"../escape.txt", "/abs.csv", "  "} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestStore_GetDirectoryFails(t *testing.T) {
	store := newTempStore(t)
	if err := os.MkdirAll(filepath.Join(store.Root(), "teams.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "teams.csv"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected a non-not-found error, got %v", err)
	}
}

func TestStore_PutCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "teams.csv", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStore_DefaultRoot(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	store, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.Root() != "./dane" || store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected store root=%s driver=%s", store.Root(), store.Driver())
	}
}

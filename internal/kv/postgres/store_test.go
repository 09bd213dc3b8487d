package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"testing"

	"accreditex/internal/kv"
	"accreditex/internal/kv/postgres/testutil"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("expected pgx driver, got %s", driverName)
		}
		return db, nil
	})
	t.Cleanup(restore)

	store, err := New("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, conn
}

func TestStoreDriver(t *testing.T) {
	store, _ := newStubStore(t)
	if store.Driver() != kv.DriverPostgres {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
}

func TestStoreEnsuresTableOnOpen(t *testing.T) {
	_, conn := newStubStore(t)
	found := false
	for _, q := range conn.Execs {
		if len(q) >= 12 && q[:12] == "CREATE TABLE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CREATE TABLE on open, execs: %v", conn.Execs)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newStubStore(t)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "a:1", []byte("first")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, "a:1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(value) != "first" {
		t.Fatalf("unexpected value %q", value)
	}

	// Upsert replaces.
	if err := store.Set(ctx, "a:1", []byte("second")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	value, _, _ = store.Get(ctx, "a:1")
	if string(value) != "second" {
		t.Fatalf("expected replaced value, got %q", value)
	}

	if err := store.Delete(ctx, "a:1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a:1"); ok {
		t.Fatalf("expected deleted key to be absent")
	}
	if err := store.Delete(ctx, "a:1"); err != nil {
		t.Fatalf("deleting missing key should succeed: %v", err)
	}
}

func TestStoreKeysPrefixOrdered(t *testing.T) {
	ctx := context.Background()
	store, _ := newStubStore(t)

	for _, key := range []string{"log:b", "log:a", "baseline:x"} {
		if err := store.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := store.Keys(ctx, "log:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"log:a", "log:b"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestNewFailsWhenPingFails(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := New("postgres://example/db"); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestNewFailsWhenOpenFails(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) {
		return nil, fmt.Errorf("boom")
	})
	defer restore()

	if _, err := New(""); err == nil {
		t.Fatalf("expected open failure")
	}
}

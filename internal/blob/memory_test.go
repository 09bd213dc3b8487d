package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	if store.Driver() != DriverMemory {
		t.Fatalf("unexpected driver %s", store.Driver())
	}

	info, err := store.Put(ctx, "exports/a.json", strings.NewReader("payload"), PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"program-id": "jci"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "exports/a.json" || info.Size != 7 || info.ContentType != "application/json" {
		t.Fatalf("unexpected info %+v", info)
	}

	// Create-only: a second put on the same key fails.
	if _, err := store.Put(ctx, "exports/a.json", strings.NewReader("other"), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put to fail")
	}

	got, rc, err := store.Get(ctx, "exports/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "payload" {
		t.Fatalf("unexpected body %q", body)
	}
	if got.Metadata["program-id"] != "jci" {
		t.Fatalf("metadata lost: %+v", got)
	}

	head, err := store.Head(ctx, "exports/a.json")
	if err != nil || head.Size != 7 {
		t.Fatalf("head: %+v err=%v", head, err)
	}

	if _, err := store.PresignURL(ctx, "exports/a.json", SignedURLOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	existed, err := store.Delete(ctx, "exports/a.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "exports/a.json")
	if err != nil || existed {
		t.Fatalf("second delete should report absence: existed=%v err=%v", existed, err)
	}
	if _, _, err := store.Get(ctx, "exports/a.json"); err == nil {
		t.Fatalf("expected get after delete to fail")
	}
}

func TestMemoryStoreListPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	for _, key := range []string{"exports/jci/1.json", "exports/jci/2.json", "exports/cbahi/1.json"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "exports/jci/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(infos))
	}
	if infos[0].Key != "exports/jci/1.json" || infos[1].Key != "exports/jci/2.json" {
		t.Fatalf("unexpected order %+v", infos)
	}

	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 objects, got %d err=%v", len(all), err)
	}
}

func TestMemoryStoreIsolatesMetadata(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	meta := map[string]string{"k": "v"}
	if _, err := store.Put(ctx, "a", strings.NewReader("x"), PutOptions{Metadata: meta}); err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["k"] = "mutated"

	head, err := store.Head(ctx, "a")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Metadata["k"] != "v" {
		t.Fatalf("store aliased caller metadata: %+v", head.Metadata)
	}
	head.Metadata["k"] = "mutated-again"
	again, _ := store.Head(ctx, "a")
	if again.Metadata["k"] != "v" {
		t.Fatalf("store leaked internal metadata: %+v", again.Metadata)
	}
}

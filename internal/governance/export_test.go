package governance

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"accreditex/internal/blob"
)

func TestExportEmptyProgram(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	export := svc.Export(ctx, "jci")
	if export.ProgramID != "jci" || export.EntryCount != 0 {
		t.Fatalf("unexpected export: %+v", export)
	}
	if export.Entries == nil {
		t.Fatalf("entries must be an empty slice, not nil")
	}
	if export.Baseline != nil {
		t.Fatalf("expected nil baseline")
	}
}

func TestExportJSONShape(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()); err != nil {
		t.Fatalf("save baseline: %v", err)
	}
	payload, err := svc.ExportJSON(ctx, "jci")
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	if !strings.HasPrefix(payload, "{\n  \"programId\": \"jci\"") {
		t.Fatalf("expected two-space indented payload, got prefix %q", payload[:40])
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	for _, field := range []string{"programId", "exportedAt", "baseline", "entryCount", "entries"} {
		if _, ok := decoded[field]; !ok {
			t.Fatalf("export missing field %s: %v", field, decoded)
		}
	}
	if decoded["entryCount"].(float64) != 1 {
		t.Fatalf("expected entryCount 1, got %v", decoded["entryCount"])
	}
}

func TestArchiveExportWritesBlob(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	blobs := blob.NewMemory()

	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()); err != nil {
		t.Fatalf("save baseline: %v", err)
	}
	info, err := svc.ArchiveExport(ctx, "jci", blobs)
	if err != nil {
		t.Fatalf("archive export: %v", err)
	}
	if !strings.HasPrefix(info.Key, "governance-exports/jci/") || !strings.HasSuffix(info.Key, ".json") {
		t.Fatalf("unexpected archive key: %s", info.Key)
	}
	if info.ContentType != "application/json" {
		t.Fatalf("unexpected content type: %s", info.ContentType)
	}
	if info.Metadata["program-id"] != "jci" {
		t.Fatalf("expected program-id metadata, got %v", info.Metadata)
	}

	stored, rc, err := blobs.Get(ctx, info.Key)
	if err != nil {
		t.Fatalf("read archived export: %v", err)
	}
	defer rc.Close()
	if stored.Size == 0 {
		t.Fatalf("expected non-empty archive")
	}
}

package governance

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	memory "accreditex/internal/kv/memory"
	"accreditex/pkg/domain"
)

func testStandards() []domain.Standard {
	return []domain.Standard{
		{StandardID: "IPSG.1", ProgramID: "jci", Section: "IPSG", Description: "Identify patients correctly", Criticality: domain.CriticalityHigh},
		{StandardID: "IPSG.2", ProgramID: "jci", Section: "IPSG", Description: "Improve effective communication", Criticality: domain.CriticalityHigh},
		{StandardID: "QPS.1", ProgramID: "jci", Section: "QPS", Description: "Plan the quality improvement program"},
	}
}

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	seq := 0
	svc := NewService(store,
		WithClock(ClockFunc(func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) })),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("gov-%d", seq) }),
	)
	return svc, store
}

func TestBuildFingerprintOrderIndependent(t *testing.T) {
	standards := testStandards()
	reversed := []domain.Standard{standards[2], standards[0], standards[1]}

	a := BuildFingerprint(standards)
	b := BuildFingerprint(reversed)
	if a != b {
		t.Fatalf("fingerprint should be order independent:\n%s\n%s", a, b)
	}
	if !strings.Contains(a, "\"standardId\":\"IPSG.1\"") {
		t.Fatalf("fingerprint missing projected standard: %s", a)
	}
	if strings.Contains(a, "programId") {
		t.Fatalf("fingerprint should not contain non-projected fields: %s", a)
	}
}

func TestBuildFingerprintSensitiveToContent(t *testing.T) {
	standards := testStandards()
	changed := testStandards()
	changed[1].Description = "Improve communication handoffs"

	if BuildFingerprint(standards) == BuildFingerprint(changed) {
		t.Fatalf("expected fingerprint to change when a description changes")
	}
}

func TestBuildFingerprintEmpty(t *testing.T) {
	if got := BuildFingerprint(nil); got != "[]" {
		t.Fatalf("expected empty array fingerprint, got %s", got)
	}
}

func TestSaveBaselineFirstTimeLogsSet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	standards := testStandards()

	baseline, err := svc.SaveBaseline(ctx, "jci", standards)
	if err != nil {
		t.Fatalf("save baseline: %v", err)
	}
	if baseline.ProgramID != "jci" || baseline.StandardCount != 3 {
		t.Fatalf("unexpected baseline: %+v", baseline)
	}
	if baseline.Fingerprint != BuildFingerprint(standards) {
		t.Fatalf("baseline fingerprint mismatch")
	}

	log := svc.Log(ctx, "jci")
	if len(log) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(log))
	}
	entry := log[0]
	if entry.Action != domain.BaselineSet {
		t.Fatalf("expected baseline_set, got %s", entry.Action)
	}
	if entry.ID != "gov-1" || entry.ProgramID != "jci" {
		t.Fatalf("unexpected entry identity: %+v", entry)
	}
	if entry.PreviousFingerprint != nil || entry.PreviousStandardCount != nil {
		t.Fatalf("first baseline should carry no previous state: %+v", entry)
	}
}

func TestSaveBaselineRefreshCarriesPreviousState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.SaveBaseline(ctx, "jci", testStandards())
	if err != nil {
		t.Fatalf("save first baseline: %v", err)
	}

	refreshed := append(testStandards(), domain.Standard{StandardID: "QPS.2", ProgramID: "jci", Section: "QPS", Description: "Measure priority processes"})
	second, err := svc.SaveBaseline(ctx, "jci", refreshed)
	if err != nil {
		t.Fatalf("refresh baseline: %v", err)
	}
	if second.StandardCount != 4 {
		t.Fatalf("expected 4 standards in refreshed baseline, got %d", second.StandardCount)
	}

	log := svc.Log(ctx, "jci")
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
	// Newest first.
	entry := log[0]
	if entry.Action != domain.BaselineRefreshed {
		t.Fatalf("expected baseline_refreshed, got %s", entry.Action)
	}
	if entry.PreviousStandardCount == nil || *entry.PreviousStandardCount != 3 {
		t.Fatalf("expected previous count 3, got %+v", entry.PreviousStandardCount)
	}
	if entry.PreviousFingerprint == nil || *entry.PreviousFingerprint != first.Fingerprint {
		t.Fatalf("expected previous fingerprint carried over")
	}
	if log[1].Action != domain.BaselineSet {
		t.Fatalf("expected oldest entry baseline_set, got %s", log[1].Action)
	}
}

func TestClearBaselineLogsClearanceThenDeletes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()); err != nil {
		t.Fatalf("save baseline: %v", err)
	}
	if err := svc.ClearBaseline(ctx, "jci"); err != nil {
		t.Fatalf("clear baseline: %v", err)
	}
	if svc.Baseline(ctx, "jci") != nil {
		t.Fatalf("expected baseline removed")
	}

	log := svc.Log(ctx, "jci")
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
	if log[0].Action != domain.BaselineCleared {
		t.Fatalf("expected baseline_cleared, got %s", log[0].Action)
	}
	if log[0].PreviousStandardCount == nil || *log[0].PreviousStandardCount != 3 {
		t.Fatalf("clearance should preserve previous count: %+v", log[0])
	}
}

func TestLogGrowsAppendOnlyNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()[:2]); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if err := svc.ClearBaseline(ctx, "jci"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	log := svc.Log(ctx, "jci")
	if len(log) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(log))
	}
	want := []domain.GovernanceAction{domain.BaselineCleared, domain.BaselineRefreshed, domain.BaselineSet}
	for i, action := range want {
		if log[i].Action != action {
			t.Fatalf("entry %d: expected %s, got %s", i, action, log[i].Action)
		}
	}
}

func TestClearBaselineWithoutBaselineIsQuiet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.ClearBaseline(ctx, "jci"); err != nil {
		t.Fatalf("clear missing baseline: %v", err)
	}
	if log := svc.Log(ctx, "jci"); len(log) != 0 {
		t.Fatalf("expected no log entries, got %d", len(log))
	}
}

func TestStatusWithoutBaseline(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	standards := testStandards()

	status := svc.Status(ctx, "jci", standards)
	if status.HasBaseline {
		t.Fatalf("expected no baseline")
	}
	if status.DriftDetected {
		t.Fatalf("drift is undefined without a baseline")
	}
	if status.CurrentFingerprint != BuildFingerprint(standards) {
		t.Fatalf("unexpected current fingerprint")
	}
	if status.StandardCount != 3 {
		t.Fatalf("unexpected standard count %d", status.StandardCount)
	}
}

func TestStatusDetectsDrift(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	standards := testStandards()

	if _, err := svc.SaveBaseline(ctx, "jci", standards); err != nil {
		t.Fatalf("save baseline: %v", err)
	}

	same := svc.Status(ctx, "jci", standards)
	if !same.HasBaseline || same.DriftDetected {
		t.Fatalf("expected matching status, got %+v", same)
	}

	drifted := append(testStandards(), domain.Standard{StandardID: "QPS.2", ProgramID: "jci", Section: "QPS", Description: "Measure priority processes"})
	status := svc.Status(ctx, "jci", drifted)
	if !status.DriftDetected {
		t.Fatalf("expected drift detection")
	}
}

func TestBaselineFailsOpenOnCorruptPayload(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if err := store.Set(ctx, "accreditex-standards-baseline:jci", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	if svc.Baseline(ctx, "jci") != nil {
		t.Fatalf("corrupt baseline should read as absent")
	}

	if err := store.Set(ctx, "accreditex-standards-governance-log:jci", []byte("[broken")); err != nil {
		t.Fatalf("seed corrupt log: %v", err)
	}
	if log := svc.Log(ctx, "jci"); len(log) != 0 {
		t.Fatalf("corrupt log should read as empty, got %d entries", len(log))
	}
}

func TestLogIsolatedPerProgram(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SaveBaseline(ctx, "jci", testStandards()); err != nil {
		t.Fatalf("save jci baseline: %v", err)
	}
	if _, err := svc.SaveBaseline(ctx, "cbahi", testStandards()[:1]); err != nil {
		t.Fatalf("save cbahi baseline: %v", err)
	}

	if got := len(svc.Log(ctx, "jci")); got != 1 {
		t.Fatalf("expected 1 jci entry, got %d", got)
	}
	if got := len(svc.Log(ctx, "cbahi")); got != 1 {
		t.Fatalf("expected 1 cbahi entry, got %d", got)
	}
	if err := svc.ClearLog(ctx, "jci"); err != nil {
		t.Fatalf("clear log: %v", err)
	}
	if got := len(svc.Log(ctx, "jci")); got != 0 {
		t.Fatalf("expected cleared jci log, got %d", got)
	}
	if got := len(svc.Log(ctx, "cbahi")); got != 1 {
		t.Fatalf("cbahi log should be untouched, got %d", got)
	}
}

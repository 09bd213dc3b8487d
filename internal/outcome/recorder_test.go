package outcome

import (
	"context"
	"testing"
	"time"

	memory "accreditex/internal/kv/memory"
	"accreditex/pkg/domain"
)

func newTestRecorder(t *testing.T, now *time.Time) (*Recorder, *memory.Store) {
	t.Helper()
	store := memory.New()
	recorder, err := NewRecorder(store, WithClock(ClockFunc(func() time.Time { return *now })))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	return recorder, store
}

func TestRecordClampsInputs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	recorder, _ := newTestRecorder(t, &now)

	snapshot, err := recorder.Record(ctx, domain.SnapshotInput{
		ReadinessScore:             131.2,
		GuideCompletionPercent:     -4,
		AssessorExportsLast30Days:  2.6,
		ReviewerSignOffRatePercent: 88.4,
		CriticalOpenFindings:       -1,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if snapshot.MonthKey != "2025-06" {
		t.Fatalf("unexpected month key %s", snapshot.MonthKey)
	}
	if snapshot.ReadinessScore != 100 || snapshot.GuideCompletionPercent != 0 {
		t.Fatalf("percent clamping failed: %+v", snapshot)
	}
	if snapshot.AssessorExportsLast30Days != 3 || snapshot.CriticalOpenFindings != 0 {
		t.Fatalf("count clamping failed: %+v", snapshot)
	}
	if snapshot.ReviewerSignOffRatePercent != 88 {
		t.Fatalf("expected rounded 88, got %d", snapshot.ReviewerSignOffRatePercent)
	}
	if !snapshot.CapturedAt.Equal(now) {
		t.Fatalf("unexpected capture time %v", snapshot.CapturedAt)
	}
}

func TestRecordUpsertsSameMonth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recorder, _ := newTestRecorder(t, &now)

	if _, err := recorder.Record(ctx, domain.SnapshotInput{ReadinessScore: 50}); err != nil {
		t.Fatalf("first record: %v", err)
	}
	now = time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	if _, err := recorder.Record(ctx, domain.SnapshotInput{ReadinessScore: 75}); err != nil {
		t.Fatalf("second record: %v", err)
	}

	snapshots, err := recorder.Snapshots(ctx)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("same month must upsert, got %d snapshots", len(snapshots))
	}
	if snapshots[0].ReadinessScore != 75 {
		t.Fatalf("last write should win, got %d", snapshots[0].ReadinessScore)
	}
}

func TestRecordRetainsNewestTwentyFour(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	recorder, _ := newTestRecorder(t, &now)

	for i := 0; i < 30; i++ {
		now = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		if _, err := recorder.Record(ctx, domain.SnapshotInput{ReadinessScore: float64(i)}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	snapshots, err := recorder.Snapshots(ctx)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 24 {
		t.Fatalf("expected 24 retained snapshots, got %d", len(snapshots))
	}
	// Newest first, oldest six months dropped.
	if snapshots[0].MonthKey != "2025-06" {
		t.Fatalf("unexpected newest month %s", snapshots[0].MonthKey)
	}
	if snapshots[len(snapshots)-1].MonthKey != "2023-07" {
		t.Fatalf("unexpected oldest month %s", snapshots[len(snapshots)-1].MonthKey)
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i-1].MonthKey <= snapshots[i].MonthKey {
			t.Fatalf("snapshots out of order at %d: %s <= %s", i, snapshots[i-1].MonthKey, snapshots[i].MonthKey)
		}
	}
}

func TestRecentSnapshotsAscending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recorder, _ := newTestRecorder(t, &now)

	for i := 0; i < 8; i++ {
		now = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		if _, err := recorder.Record(ctx, domain.SnapshotInput{ReadinessScore: float64(i * 10)}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	recent, err := recorder.RecentSnapshots(ctx, 6)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 6 {
		t.Fatalf("expected 6 snapshots, got %d", len(recent))
	}
	if recent[0].MonthKey != "2025-03" || recent[5].MonthKey != "2025-08" {
		t.Fatalf("unexpected window %s..%s", recent[0].MonthKey, recent[5].MonthKey)
	}
	// Zero window falls back to the default of six months.
	fallback, err := recorder.RecentSnapshots(ctx, 0)
	if err != nil {
		t.Fatalf("recent fallback: %v", err)
	}
	if len(fallback) != 6 {
		t.Fatalf("expected default window of 6, got %d", len(fallback))
	}
}

func TestSnapshotsFailOpenOnCorruptPayload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recorder, store := newTestRecorder(t, &now)

	if err := store.Set(ctx, "accreditex-quality-outcome-monthly-snapshots", []byte("[broken")); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	snapshots, err := recorder.Snapshots(ctx)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 0 {
		t.Fatalf("corrupt payload should read as empty, got %d", len(snapshots))
	}
}

func TestClearDropsSeries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recorder, _ := newTestRecorder(t, &now)

	if _, err := recorder.Record(ctx, domain.SnapshotInput{ReadinessScore: 80}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := recorder.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snapshots, err := recorder.Snapshots(ctx)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 0 {
		t.Fatalf("expected cleared series, got %d", len(snapshots))
	}
}

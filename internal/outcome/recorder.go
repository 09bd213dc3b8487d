// Package outcome records monthly quality-outcome KPI snapshots and derives
// trend analytics from them: guide-completion/readiness correlation and a
// predictive audit risk score.
package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"accreditex/internal/kv"
	"accreditex/pkg/domain"
)

// snapshotKey is the single store key holding the rolling snapshot series.
const snapshotKey = "accreditex-quality-outcome-monthly-snapshots"

// maxSnapshots bounds the retained history to two years of monthly captures.
const maxSnapshots = 24

// defaultRecentMonths is the default trend window.
const defaultRecentMonths = 6

// Clock supplies the capture timestamp; injectable for tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Recorder persists monthly KPI snapshots in a key-value store, one JSON
// array under a single key, newest month first.
type Recorder struct {
	store kv.Store
	clock Clock
}

// RecorderOption customizes a Recorder.
type RecorderOption func(*Recorder)

// WithClock overrides the wall clock.
func WithClock(clock Clock) RecorderOption {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRecorder builds a Recorder over the supplied store.
func NewRecorder(store kv.Store, opts ...RecorderOption) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("outcome: nil store")
	}
	r := &Recorder{
		store: store,
		clock: ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func clampPercent(value float64) int {
	rounded := math.Round(value)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}

func clampCount(value float64) int {
	rounded := math.Round(value)
	if rounded < 0 {
		return 0
	}
	return int(rounded)
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

// Snapshots returns the full retained series, newest month first. Missing or
// corrupt stored data yields an empty series; storage faults are returned.
func (r *Recorder) Snapshots(ctx context.Context) ([]domain.MonthlyQualityOutcomeSnapshot, error) {
	raw, ok, err := r.store.Get(ctx, snapshotKey)
	if err != nil {
		return nil, fmt.Errorf("outcome: read snapshots: %w", err)
	}
	if !ok {
		return []domain.MonthlyQualityOutcomeSnapshot{}, nil
	}
	var snapshots []domain.MonthlyQualityOutcomeSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		return []domain.MonthlyQualityOutcomeSnapshot{}, nil
	}
	return snapshots, nil
}

// RecentSnapshots returns up to months of the newest snapshots in ascending
// month order, ready for trend charts and correlation.
func (r *Recorder) RecentSnapshots(ctx context.Context, months int) ([]domain.MonthlyQualityOutcomeSnapshot, error) {
	if months <= 0 {
		months = defaultRecentMonths
	}
	snapshots, err := r.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].MonthKey < snapshots[j].MonthKey })
	if len(snapshots) > months {
		snapshots = snapshots[len(snapshots)-months:]
	}
	return snapshots, nil
}

// Record captures a snapshot for the current month, clamping percentages to
// [0,100] and counts to >= 0. A snapshot recorded earlier in the same month
// is replaced; retention keeps the newest 24 months.
func (r *Recorder) Record(ctx context.Context, input domain.SnapshotInput) (domain.MonthlyQualityOutcomeSnapshot, error) {
	now := r.clock.Now().UTC()
	snapshot := domain.MonthlyQualityOutcomeSnapshot{
		MonthKey:                   monthKey(now),
		CapturedAt:                 now,
		ReadinessScore:             clampPercent(input.ReadinessScore),
		GuideCompletionPercent:     clampPercent(input.GuideCompletionPercent),
		AssessorExportsLast30Days:  clampCount(input.AssessorExportsLast30Days),
		ReviewerSignOffRatePercent: clampPercent(input.ReviewerSignOffRatePercent),
		CriticalOpenFindings:       clampCount(input.CriticalOpenFindings),
	}

	existing, err := r.Snapshots(ctx)
	if err != nil {
		return domain.MonthlyQualityOutcomeSnapshot{}, err
	}
	updated := make([]domain.MonthlyQualityOutcomeSnapshot, 0, len(existing)+1)
	updated = append(updated, snapshot)
	for _, entry := range existing {
		if entry.MonthKey != snapshot.MonthKey {
			updated = append(updated, entry)
		}
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].MonthKey > updated[j].MonthKey })
	if len(updated) > maxSnapshots {
		updated = updated[:maxSnapshots]
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return domain.MonthlyQualityOutcomeSnapshot{}, fmt.Errorf("outcome: encode snapshots: %w", err)
	}
	if err := r.store.Set(ctx, snapshotKey, payload); err != nil {
		return domain.MonthlyQualityOutcomeSnapshot{}, fmt.Errorf("outcome: write snapshots: %w", err)
	}
	return snapshot, nil
}

// Clear drops the retained series.
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, snapshotKey); err != nil {
		return fmt.Errorf("outcome: clear snapshots: %w", err)
	}
	return nil
}

package governance

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"accreditex/internal/kv"
	"accreditex/pkg/domain"
)

// Storage key namespaces. Keys are "{namespace}:{programId}".
const (
	baselinePrefix = "accreditex-standards-baseline"
	logPrefix      = "accreditex-standards-governance-log"
)

// Clock supplies the current time; injected so tests can freeze it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator mints audit log entry identifiers.
type IDGenerator func() string

// Service manages standards baselines and their audit log on an injected
// key-value store. Reads fail open (missing or corrupt payloads are treated
// as absent); writes fail loud, since silently dropping a governance record
// is unacceptable for an audit trail.
type Service struct {
	store kv.Store
	clock Clock
	newID IDGenerator
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides audit entry ID minting.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs a governance service backed by the supplied store.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: ClockFunc(func() time.Time { return time.Now().UTC() }),
		newID: defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("gov-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}

func baselineKey(programID string) string { return baselinePrefix + ":" + programID }
func logKey(programID string) string      { return logPrefix + ":" + programID }

// Baseline returns the active baseline for a program, or nil when none is
// stored or the stored payload is corrupt.
func (s *Service) Baseline(ctx context.Context, programID string) *domain.StandardsBaseline {
	raw, ok, err := s.store.Get(ctx, baselineKey(programID))
	if err != nil || !ok {
		return nil
	}
	var baseline domain.StandardsBaseline
	if err := json.Unmarshal(raw, &baseline); err != nil {
		return nil
	}
	return &baseline
}

// SaveBaseline computes the fingerprint for the supplied standards, persists
// the baseline, and appends a baseline_set or baseline_refreshed audit entry
// carrying the previous fingerprint and count when one existed.
func (s *Service) SaveBaseline(ctx context.Context, programID string, standards []domain.Standard) (domain.StandardsBaseline, error) {
	previous := s.Baseline(ctx, programID)
	baseline := domain.StandardsBaseline{
		ProgramID:     programID,
		Fingerprint:   BuildFingerprint(standards),
		StandardCount: len(standards),
		CreatedAt:     s.clock.Now(),
	}

	payload, err := json.Marshal(baseline)
	if err != nil {
		return domain.StandardsBaseline{}, fmt.Errorf("encode baseline: %w", err)
	}
	if err := s.store.Set(ctx, baselineKey(programID), payload); err != nil {
		return domain.StandardsBaseline{}, fmt.Errorf("persist baseline: %w", err)
	}

	action := domain.BaselineSet
	entry := domain.GovernanceLogEntry{
		StandardCount: baseline.StandardCount,
		Fingerprint:   baseline.Fingerprint,
	}
	if previous != nil {
		action = domain.BaselineRefreshed
		prevCount := previous.StandardCount
		prevFingerprint := previous.Fingerprint
		entry.PreviousStandardCount = &prevCount
		entry.PreviousFingerprint = &prevFingerprint
	}
	entry.Action = action
	if err := s.appendLogEntry(ctx, programID, entry); err != nil {
		return domain.StandardsBaseline{}, err
	}
	return baseline, nil
}

// ClearBaseline removes the stored baseline. When one existed, a
// baseline_cleared entry preserving its fingerprint and count is appended
// before removal.
func (s *Service) ClearBaseline(ctx context.Context, programID string) error {
	previous := s.Baseline(ctx, programID)
	if previous != nil {
		prevCount := previous.StandardCount
		prevFingerprint := previous.Fingerprint
		entry := domain.GovernanceLogEntry{
			Action:                domain.BaselineCleared,
			StandardCount:         previous.StandardCount,
			Fingerprint:           previous.Fingerprint,
			PreviousStandardCount: &prevCount,
			PreviousFingerprint:   &prevFingerprint,
		}
		if err := s.appendLogEntry(ctx, programID, entry); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, baselineKey(programID)); err != nil {
		return fmt.Errorf("remove baseline: %w", err)
	}
	return nil
}

// Status reports baseline presence and drift against the current standards
// collection. Without a baseline drift is always false: there is no reference
// point to detect drift from.
func (s *Service) Status(ctx context.Context, programID string, standards []domain.Standard) domain.GovernanceStatus {
	baseline := s.Baseline(ctx, programID)
	currentFingerprint := BuildFingerprint(standards)

	if baseline == nil {
		return domain.GovernanceStatus{
			HasBaseline:        false,
			CurrentFingerprint: currentFingerprint,
			StandardCount:      len(standards),
			DriftDetected:      false,
		}
	}
	return domain.GovernanceStatus{
		HasBaseline:        true,
		Baseline:           baseline,
		CurrentFingerprint: currentFingerprint,
		StandardCount:      len(standards),
		DriftDetected:      baseline.Fingerprint != currentFingerprint,
	}
}

// Log returns the program's audit log, newest first. Missing or corrupt
// stored data yields an empty log.
func (s *Service) Log(ctx context.Context, programID string) []domain.GovernanceLogEntry {
	return s.readLog(ctx, programID)
}

// ClearLog wipes the entire audit log for a program. This is the only
// deletion path for log entries.
func (s *Service) ClearLog(ctx context.Context, programID string) error {
	if err := s.store.Delete(ctx, logKey(programID)); err != nil {
		return fmt.Errorf("remove governance log: %w", err)
	}
	return nil
}

func (s *Service) readLog(ctx context.Context, programID string) []domain.GovernanceLogEntry {
	raw, ok, err := s.store.Get(ctx, logKey(programID))
	if err != nil || !ok {
		return []domain.GovernanceLogEntry{}
	}
	var entries []domain.GovernanceLogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []domain.GovernanceLogEntry{}
	}
	return entries
}

// appendLogEntry prepends the entry (newest first) and persists the log as a
// single read-modify-write against the program's log key.
func (s *Service) appendLogEntry(ctx context.Context, programID string, entry domain.GovernanceLogEntry) error {
	entry.ID = s.newID()
	entry.ProgramID = programID
	entry.Timestamp = s.clock.Now()

	entries := append([]domain.GovernanceLogEntry{entry}, s.readLog(ctx, programID)...)
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode governance log: %w", err)
	}
	if err := s.store.Set(ctx, logKey(programID), payload); err != nil {
		return fmt.Errorf("persist governance log: %w", err)
	}
	return nil
}

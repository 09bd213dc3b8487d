// Package core composes the governance, crosswalk, readiness, and outcome
// engines behind one instrumented service facade. Every operation is wrapped
// with logging, metrics, tracing, and operational audit hooks supplied via
// functional options.
package core

import (
	"context"
	"fmt"
	"time"

	"accreditex/internal/blob"
	"accreditex/internal/crosswalk"
	"accreditex/internal/governance"
	"accreditex/internal/kv"
	"accreditex/internal/outcome"
	"accreditex/internal/readiness"
)

// Service exposes the accreditation quality-intelligence operations over an
// injected key-value store and optional blob archive.
type Service struct {
	store   kv.Store
	blobs   blob.Store
	gov     *governance.Service
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	logger  Logger
	clock   Clock
	idGen   governance.IDGenerator
	outcome *outcome.Recorder
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger attaches a structured logger. Nil is ignored.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock used for timestamps and durations.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder attaches a metrics sink. Nil is ignored.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer attaches a tracer. Nil is ignored.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder attaches an operational audit sink. Nil is ignored.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithIDGenerator overrides governance log entry ID minting. Nil is ignored.
func WithIDGenerator(gen governance.IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// WithBlobStore attaches the archive backend used by export archiving.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) {
		s.blobs = store
	}
}

// NewService constructs the facade over the supplied store.
func NewService(store kv.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("core: nil store")
	}
	s := &Service{
		store:   store,
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
		logger:  noopLogger{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	govOpts := []governance.Option{governance.WithClock(governance.ClockFunc(s.clock.Now))}
	if s.idGen != nil {
		govOpts = append(govOpts, governance.WithIDGenerator(s.idGen))
	}
	s.gov = governance.NewService(store, govOpts...)
	recorder, err := outcome.NewRecorder(store, outcome.WithClock(outcome.ClockFunc(s.clock.Now)))
	if err != nil {
		return nil, err
	}
	s.outcome = recorder
	return s, nil
}

// Store returns the underlying key-value store.
func (s *Service) Store() kv.Store { return s.store }

// instrument opens a span for one operation and returns the completion hook
// that emits the metric, audit entry, and log line.
func (s *Service) instrument(ctx context.Context, operation, programID string) (context.Context, func(error)) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, operation)
	return ctx, func(err error) {
		duration := s.clock.Now().Sub(start)
		span.End(err)
		s.metrics.Observe(ctx, operation, err == nil, duration)

		entry := AuditEntry{
			Operation: operation,
			ProgramID: programID,
			Status:    AuditStatusSuccess,
			Duration:  duration,
			Timestamp: s.clock.Now(),
		}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Error = err.Error()
			s.logger.Error("operation failed", "operation", operation, "program", programID, "error", err)
		} else {
			s.logger.Debug("operation completed", "operation", operation, "program", programID, "duration_ms", duration.Milliseconds())
		}
		s.audit.Record(ctx, entry)
	}
}

// SetStandardsBaseline fingerprints the standards set and stores it as the
// program's accepted baseline, appending a governance log entry.
func (s *Service) SetStandardsBaseline(ctx context.Context, programID string, standards []Standard) (StandardsBaseline, error) {
	ctx, done := s.instrument(ctx, "set_standards_baseline", programID)
	baseline, err := s.gov.SaveBaseline(ctx, programID, standards)
	done(err)
	return baseline, err
}

// StandardsBaseline returns the active baseline, or nil when none exists.
func (s *Service) StandardsBaseline(ctx context.Context, programID string) *StandardsBaseline {
	ctx, done := s.instrument(ctx, "get_standards_baseline", programID)
	baseline := s.gov.Baseline(ctx, programID)
	done(nil)
	return baseline
}

// ClearStandardsBaseline removes the baseline, logging the clearance first.
func (s *Service) ClearStandardsBaseline(ctx context.Context, programID string) error {
	ctx, done := s.instrument(ctx, "clear_standards_baseline", programID)
	err := s.gov.ClearBaseline(ctx, programID)
	done(err)
	return err
}

// GovernanceStatus reports baseline presence and drift against the supplied
// standards collection.
func (s *Service) GovernanceStatus(ctx context.Context, programID string, standards []Standard) GovernanceStatus {
	ctx, done := s.instrument(ctx, "governance_status", programID)
	status := s.gov.Status(ctx, programID, standards)
	done(nil)
	return status
}

// GovernanceLog returns the program's audit log, newest first.
func (s *Service) GovernanceLog(ctx context.Context, programID string) []GovernanceLogEntry {
	ctx, done := s.instrument(ctx, "governance_log", programID)
	entries := s.gov.Log(ctx, programID)
	done(nil)
	return entries
}

// ClearGovernanceLog wipes the program's audit log.
func (s *Service) ClearGovernanceLog(ctx context.Context, programID string) error {
	ctx, done := s.instrument(ctx, "clear_governance_log", programID)
	err := s.gov.ClearLog(ctx, programID)
	done(err)
	return err
}

// ExportGovernance assembles the full audit trail payload for a program.
func (s *Service) ExportGovernance(ctx context.Context, programID string) GovernanceExport {
	ctx, done := s.instrument(ctx, "export_governance", programID)
	export := s.gov.Export(ctx, programID)
	done(nil)
	return export
}

// ExportGovernanceJSON renders the audit trail as indented JSON.
func (s *Service) ExportGovernanceJSON(ctx context.Context, programID string) (string, error) {
	ctx, done := s.instrument(ctx, "export_governance_json", programID)
	payload, err := s.gov.ExportJSON(ctx, programID)
	done(err)
	return payload, err
}

// ArchiveGovernanceExport writes the export payload to the configured blob
// store. Fails when no blob store was attached.
func (s *Service) ArchiveGovernanceExport(ctx context.Context, programID string) (blob.Info, error) {
	ctx, done := s.instrument(ctx, "archive_governance_export", programID)
	if s.blobs == nil {
		err := fmt.Errorf("core: no blob store configured")
		done(err)
		return blob.Info{}, err
	}
	info, err := s.gov.ArchiveExport(ctx, programID, s.blobs)
	done(err)
	return info, err
}

// StandardsDriftReport diffs the current standards set against the baseline.
func (s *Service) StandardsDriftReport(ctx context.Context, programID string, standards []Standard) DriftReport {
	ctx, done := s.instrument(ctx, "standards_drift_report", programID)
	report := s.gov.DriftReport(ctx, programID, standards)
	done(nil)
	return report
}

// CrossStandardMapping clusters the supplied standards into reusable control
// groups and summarizes coverage for the program.
func (s *Service) CrossStandardMapping(ctx context.Context, programID string, standards []Standard, programs []AccreditationProgram) CrossStandardMappingSummary {
	_, done := s.instrument(ctx, "cross_standard_mapping", programID)
	summary := crosswalk.BuildMappingSummary(programID, standards, programs)
	done(nil)
	return summary
}

// RelatedStandards returns standards from other programs equivalent to the
// identified one.
func (s *Service) RelatedStandards(ctx context.Context, standardID, programID string, standards []Standard) []Standard {
	_, done := s.instrument(ctx, "related_standards", programID)
	related := crosswalk.RelatedStandards(standardID, programID, standards)
	done(nil)
	return related
}

// SuggestReusableEvidence ranks controlled documents as candidate evidence
// for a checklist item based on cross-program standard equivalence.
func (s *Service) SuggestReusableEvidence(ctx context.Context, query crosswalk.EvidenceQuery) []ReusableEvidenceSuggestion {
	_, done := s.instrument(ctx, "suggest_reusable_evidence", query.CurrentProgramID)
	suggestions := crosswalk.SuggestReusableEvidence(query)
	done(nil)
	return suggestions
}

// EvaluateCAPACompleteness scores one CAPA report's closure evidence.
func (s *Service) EvaluateCAPACompleteness(ctx context.Context, capa CAPAReport) CAPACompleteness {
	_, done := s.instrument(ctx, "evaluate_capa_completeness", "")
	result := readiness.EvaluateCAPACompleteness(capa)
	done(nil)
	return result
}

// CanCloseCAPA decides a closure request under the active validation policy.
func (s *Service) CanCloseCAPA(ctx context.Context, capa CAPAReport, strictValidation bool) ClosureDecision {
	_, done := s.instrument(ctx, "can_close_capa", "")
	decision := readiness.CanCloseCAPA(capa, strictValidation)
	done(nil)
	return decision
}

// EvaluatePDCACompleteness scores one improvement cycle.
func (s *Service) EvaluatePDCACompleteness(ctx context.Context, cycle PDCACycle) ArtifactCompleteness {
	_, done := s.instrument(ctx, "evaluate_pdca_completeness", "")
	result := readiness.EvaluatePDCACompleteness(cycle)
	done(nil)
	return result
}

// EvaluateDocumentCompleteness scores one controlled document.
func (s *Service) EvaluateDocumentCompleteness(ctx context.Context, doc ControlledDocument) ArtifactCompleteness {
	_, done := s.instrument(ctx, "evaluate_document_completeness", "")
	result := readiness.EvaluateDocumentCompleteness(doc)
	done(nil)
	return result
}

// EvidenceIntegrityIndex averages artifact completeness across the portfolio.
func (s *Service) EvidenceIntegrityIndex(ctx context.Context, projects []Project, documents []ControlledDocument) int {
	_, done := s.instrument(ctx, "evidence_integrity_index", "")
	index := readiness.EvidenceIntegrityIndex(projects, documents)
	done(nil)
	return index
}

// PortfolioReadiness computes the weighted survey-readiness aggregate.
func (s *Service) PortfolioReadiness(ctx context.Context, projects []Project, risks []Risk, documents []ControlledDocument) PortfolioReadiness {
	_, done := s.instrument(ctx, "portfolio_readiness", "")
	result := readiness.CalculatePortfolioReadiness(projects, risks, documents)
	done(nil)
	return result
}

// RecordOutcomeSnapshot captures this month's KPI snapshot.
func (s *Service) RecordOutcomeSnapshot(ctx context.Context, input SnapshotInput) (MonthlyQualityOutcomeSnapshot, error) {
	ctx, done := s.instrument(ctx, "record_outcome_snapshot", "")
	snapshot, err := s.outcome.Record(ctx, input)
	done(err)
	return snapshot, err
}

// OutcomeSnapshots returns the retained snapshot series, newest month first.
func (s *Service) OutcomeSnapshots(ctx context.Context) ([]MonthlyQualityOutcomeSnapshot, error) {
	ctx, done := s.instrument(ctx, "outcome_snapshots", "")
	snapshots, err := s.outcome.Snapshots(ctx)
	done(err)
	return snapshots, err
}

// RecentOutcomeSnapshots returns up to months of the newest snapshots in
// ascending month order.
func (s *Service) RecentOutcomeSnapshots(ctx context.Context, months int) ([]MonthlyQualityOutcomeSnapshot, error) {
	ctx, done := s.instrument(ctx, "recent_outcome_snapshots", "")
	snapshots, err := s.outcome.RecentSnapshots(ctx, months)
	done(err)
	return snapshots, err
}

// GuideReadinessCorrelation computes the guide-completion/readiness Pearson
// correlation over the most recent months of snapshots.
func (s *Service) GuideReadinessCorrelation(ctx context.Context, months int) (GuideReadinessCorrelation, error) {
	ctx, done := s.instrument(ctx, "guide_readiness_correlation", "")
	snapshots, err := s.outcome.RecentSnapshots(ctx, months)
	if err != nil {
		done(err)
		return GuideReadinessCorrelation{}, err
	}
	result := outcome.GuideReadinessCorrelation(snapshots)
	done(nil)
	return result, nil
}

// PredictiveAuditRisk scores audit exposure from the supplied signals.
func (s *Service) PredictiveAuditRisk(ctx context.Context, input AuditRiskInput) PredictiveAuditRisk {
	_, done := s.instrument(ctx, "predictive_audit_risk", "")
	result := outcome.PredictiveAuditRisk(input)
	done(nil)
	return result
}

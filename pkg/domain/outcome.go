package domain

import "time"

// MonthlyQualityOutcomeSnapshot is a point-in-time capture of portfolio KPIs.
// At most one snapshot exists per MonthKey; recording again in the same month
// overwrites the prior capture (last write wins).
type MonthlyQualityOutcomeSnapshot struct {
	MonthKey                   string    `json:"monthKey"`
	CapturedAt                 time.Time `json:"capturedAt"`
	ReadinessScore             int       `json:"readinessScore"`
	GuideCompletionPercent     int       `json:"guideCompletionPercent"`
	AssessorExportsLast30Days  int       `json:"assessorExportsLast30Days"`
	ReviewerSignOffRatePercent int       `json:"reviewerSignOffRatePercent"`
	CriticalOpenFindings       int       `json:"criticalOpenFindings"`
}

// CorrelationLabel buckets the strength of a Pearson coefficient.
type CorrelationLabel string

// Correlation strength labels keyed to |r| thresholds 0.7 and 0.4.
const (
	CorrelationNone     CorrelationLabel = "None"
	CorrelationWeak     CorrelationLabel = "Weak"
	CorrelationModerate CorrelationLabel = "Moderate"
	CorrelationStrong   CorrelationLabel = "Strong"
)

// GuideReadinessCorrelation pairs the rounded Pearson coefficient between
// guide completion and readiness with its strength label.
type GuideReadinessCorrelation struct {
	Coefficient float64          `json:"coefficient"`
	Label       CorrelationLabel `json:"label"`
}

// RiskLevel buckets a predictive audit risk score.
type RiskLevel string

// Predictive audit risk levels: High at score >= 60, Medium at >= 30.
const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// PredictiveAuditRisk is the weighted risk assessment with one reason string
// per triggered signal threshold.
type PredictiveAuditRisk struct {
	Score   int       `json:"score"`
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// AuditRiskInput carries the five independent signals scored by the
// predictive audit risk policy table.
type AuditRiskInput struct {
	ReadinessScore             int `json:"readinessScore"`
	EvidenceIntegrityIndex     int `json:"evidenceIntegrityIndex"`
	CriticalOpenFindings       int `json:"criticalOpenFindings"`
	OpenCAPAs                  int `json:"openCapas"`
	ReviewerSignOffRatePercent int `json:"reviewerSignOffRatePercent"`
}

// SnapshotInput is the raw KPI capture before clamping; percentages are
// clamped to [0,100] and counts floored at zero when recorded.
type SnapshotInput struct {
	ReadinessScore             float64 `json:"readinessScore"`
	GuideCompletionPercent     float64 `json:"guideCompletionPercent"`
	AssessorExportsLast30Days  float64 `json:"assessorExportsLast30Days"`
	ReviewerSignOffRatePercent float64 `json:"reviewerSignOffRatePercent"`
	CriticalOpenFindings       float64 `json:"criticalOpenFindings"`
}

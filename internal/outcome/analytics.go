package outcome

import (
	"math"

	"accreditex/pkg/domain"
)

// GuideReadinessCorrelation computes the Pearson correlation between guide
// completion and readiness across snapshots. Fewer than two points, or a
// series with zero variance on either axis, yields {0, None}. The coefficient
// is rounded to two decimals before labeling.
func GuideReadinessCorrelation(snapshots []domain.MonthlyQualityOutcomeSnapshot) domain.GuideReadinessCorrelation {
	if len(snapshots) < 2 {
		return domain.GuideReadinessCorrelation{Coefficient: 0, Label: domain.CorrelationNone}
	}

	n := float64(len(snapshots))
	var meanX, meanY float64
	for _, s := range snapshots {
		meanX += float64(s.GuideCompletionPercent)
		meanY += float64(s.ReadinessScore)
	}
	meanX /= n
	meanY /= n

	var numerator, denomX, denomY float64
	for _, s := range snapshots {
		dx := float64(s.GuideCompletionPercent) - meanX
		dy := float64(s.ReadinessScore) - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	raw := 0.0
	if denom := math.Sqrt(denomX * denomY); denom > 0 {
		raw = numerator / denom
	}
	coefficient := math.Round(raw*100) / 100

	abs := math.Abs(coefficient)
	label := domain.CorrelationNone
	switch {
	case abs >= 0.7:
		label = domain.CorrelationStrong
	case abs >= 0.4:
		label = domain.CorrelationModerate
	case abs > 0:
		label = domain.CorrelationWeak
	}
	return domain.GuideReadinessCorrelation{Coefficient: coefficient, Label: label}
}

// PredictiveAuditRisk scores audit exposure from five independent signals.
// Each signal contributes a fixed weight at its threshold band and one
// human-readable reason; the total is clamped to [0,100] and leveled at
// High >= 60, Medium >= 30.
func PredictiveAuditRisk(input domain.AuditRiskInput) domain.PredictiveAuditRisk {
	score := 0
	reasons := []string{}

	switch {
	case input.ReadinessScore < 70:
		score += 35
		reasons = append(reasons, "Readiness score is below 70%")
	case input.ReadinessScore < 85:
		score += 20
		reasons = append(reasons, "Readiness score is below target threshold (85%)")
	}

	switch {
	case input.EvidenceIntegrityIndex < 75:
		score += 25
		reasons = append(reasons, "Evidence integrity index is below 75%")
	case input.EvidenceIntegrityIndex < 90:
		score += 12
		reasons = append(reasons, "Evidence integrity has improvement opportunity")
	}

	switch {
	case input.CriticalOpenFindings >= 5:
		score += 20
		reasons = append(reasons, "Critical open findings are high")
	case input.CriticalOpenFindings > 0:
		score += 10
		reasons = append(reasons, "Critical findings remain open")
	}

	switch {
	case input.OpenCAPAs >= 10:
		score += 12
		reasons = append(reasons, "Open CAPA volume is high")
	case input.OpenCAPAs >= 5:
		score += 6
		reasons = append(reasons, "Open CAPA volume is moderate")
	}

	if input.ReviewerSignOffRatePercent < 50 {
		score += 8
		reasons = append(reasons, "Reviewer sign-off rate is below 50%")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := domain.RiskLevelLow
	switch {
	case score >= 60:
		level = domain.RiskLevelHigh
	case score >= 30:
		level = domain.RiskLevelMedium
	}

	return domain.PredictiveAuditRisk{Score: score, Level: level, Reasons: reasons}
}

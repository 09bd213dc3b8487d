// Package readiness scores compliance evidence artifacts (CAPA reports, PDCA
// cycles, controlled documents) for completeness, gates CAPA closure, and
// aggregates portfolio-level survey readiness.
package readiness

import (
	"fmt"
	"math"
	"strings"
	"time"

	"accreditex/pkg/domain"
)

// hasText classifies loosely typed evidence values. Trimmed non-empty
// strings, finite numbers, and non-zero timestamps count as present;
// everything else (nil, booleans, maps, empty strings) is absent. Legacy
// imports routinely carry numbers or timestamps where prose is expected, and
// those still prove the field was filled.
func hasText(value any) bool {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	case int, int32, int64:
		return true
	case time.Time:
		return !v.IsZero()
	case *time.Time:
		return v != nil && !v.IsZero()
	default:
		return false
	}
}

type fieldCheck struct {
	key   string
	valid bool
}

func scoreChecks(checks []fieldCheck) (int, []string) {
	missing := []string{}
	for _, check := range checks {
		if !check.valid {
			missing = append(missing, check.key)
		}
	}
	score := int(math.Round(float64(len(checks)-len(missing)) / float64(len(checks)) * 100))
	return score, missing
}

// EvaluateCAPACompleteness checks the five-field closure evidence checklist.
// Closure readiness additionally requires the effectiveness gate: when a
// check is required it must be completed with recorded results.
func EvaluateCAPACompleteness(capa domain.CAPAReport) domain.CAPACompleteness {
	score, missing := scoreChecks([]fieldCheck{
		{"rootCause", hasText(capa.RootCause)},
		{"correctiveAction", hasText(capa.CorrectiveAction)},
		{"preventiveAction", hasText(capa.PreventiveAction)},
		{"assignedTo", hasText(capa.AssignedTo)},
		{"dueDate", hasText(capa.DueDate)},
	})

	gatePassed := true
	if check := capa.EffectivenessCheck; check != nil && check.Required {
		gatePassed = check.Completed && hasText(check.Results)
	}

	return domain.CAPACompleteness{
		CompletenessScore: score,
		MissingFields:     missing,
		IsClosureReady:    len(missing) == 0 && gatePassed,
	}
}

// CanCloseCAPA decides a closure request. Without strict validation every
// closure is allowed. Under strict validation a CAPA closes when it is
// closure-ready, or when a fully documented closure exception exists; the
// exception path is surfaced in the reason so audit trails show it.
func CanCloseCAPA(capa domain.CAPAReport, strictValidation bool) domain.ClosureDecision {
	if !strictValidation {
		return domain.ClosureDecision{Allowed: true}
	}

	completeness := EvaluateCAPACompleteness(capa)
	if completeness.IsClosureReady {
		return domain.ClosureDecision{Allowed: true}
	}

	if exc := capa.ClosureException; exc != nil &&
		strings.TrimSpace(exc.Reason) != "" &&
		strings.TrimSpace(exc.ApprovedBy) != "" &&
		strings.TrimSpace(exc.ApprovedAt) != "" {
		return domain.ClosureDecision{Allowed: true, Reason: "Closure allowed by approved exception"}
	}

	return domain.ClosureDecision{
		Allowed: false,
		Reason:  fmt.Sprintf("Missing required closure evidence: %s", strings.Join(completeness.MissingFields, ", ")),
	}
}

// EvaluatePDCACompleteness checks an improvement cycle's required fields,
// including at least one recorded stage transition.
func EvaluatePDCACompleteness(cycle domain.PDCACycle) domain.ArtifactCompleteness {
	score, missing := scoreChecks([]fieldCheck{
		{"title", hasText(cycle.Title)},
		{"owner", hasText(cycle.Owner)},
		{"currentStage", hasText(cycle.CurrentStage)},
		{"stageHistory", len(cycle.StageHistory) > 0},
	})
	return domain.ArtifactCompleteness{CompletenessScore: score, MissingFields: missing}
}

// EvaluateDocumentCompleteness checks a controlled document's bilingual name,
// status, upload timestamp, and version.
func EvaluateDocumentCompleteness(doc domain.ControlledDocument) domain.ArtifactCompleteness {
	score, missing := scoreChecks([]fieldCheck{
		{"name.en", hasText(doc.Name.EN)},
		{"name.ar", hasText(doc.Name.AR)},
		{"status", hasText(string(doc.Status))},
		{"uploadedAt", hasText(doc.UploadedAt)},
		{"currentVersion", !math.IsNaN(doc.CurrentVersion) && !math.IsInf(doc.CurrentVersion, 0) && doc.CurrentVersion > 0},
	})
	return domain.ArtifactCompleteness{CompletenessScore: score, MissingFields: missing}
}

// EvidenceIntegrityIndex averages completeness over every CAPA, PDCA cycle,
// and controlled document in scope. An empty portfolio scores 100: no
// artifacts means no incomplete artifacts.
func EvidenceIntegrityIndex(projects []domain.Project, documents []domain.ControlledDocument) int {
	var sum, count int
	for _, project := range projects {
		for _, capa := range project.CAPAReports {
			sum += EvaluateCAPACompleteness(capa).CompletenessScore
			count++
		}
		for _, cycle := range project.PDCACycles {
			sum += EvaluatePDCACompleteness(cycle).CompletenessScore
			count++
		}
	}
	for _, doc := range documents {
		if !doc.IsControlled {
			continue
		}
		sum += EvaluateDocumentCompleteness(doc).CompletenessScore
		count++
	}
	if count == 0 {
		return 100
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// CalculatePortfolioReadiness blends project delivery, risk control, evidence
// integrity, and CAPA effectiveness into a single weighted readiness score
// (weights 0.35/0.25/0.25/0.15). Empty project or risk sets contribute zero
// to their component rather than dividing by zero.
func CalculatePortfolioReadiness(projects []domain.Project, risks []domain.Risk, documents []domain.ControlledDocument) domain.PortfolioReadiness {
	totalProjects := len(projects)
	if totalProjects == 0 {
		totalProjects = 1
	}
	var advanced int
	for _, project := range projects {
		if project.Status == domain.ProjectCompleted || project.Status == domain.ProjectInProgress {
			advanced++
		}
	}
	deliveryScore := float64(advanced) / float64(totalProjects) * 100

	totalRisks := len(risks)
	if totalRisks == 0 {
		totalRisks = 1
	}
	var mitigated, criticalOpen int
	for _, risk := range risks {
		if risk.Status == domain.RiskMitigated || risk.Status == domain.RiskClosed {
			mitigated++
		}
		if risk.Status == domain.RiskOpen && risk.Impact >= 4 {
			criticalOpen++
		}
	}
	riskControlScore := float64(mitigated) / float64(totalRisks) * 100

	var requiredChecks, completedChecks int
	for _, project := range projects {
		for _, capa := range project.CAPAReports {
			if capa.EffectivenessCheck == nil || !capa.EffectivenessCheck.Required {
				continue
			}
			requiredChecks++
			if capa.EffectivenessCheck.Completed {
				completedChecks++
			}
		}
	}
	effectivenessRate := 100
	if requiredChecks > 0 {
		effectivenessRate = int(math.Round(float64(completedChecks) / float64(requiredChecks) * 100))
	}

	integrity := EvidenceIntegrityIndex(projects, documents)

	readiness := int(math.Round(
		deliveryScore*0.35 +
			riskControlScore*0.25 +
			float64(integrity)*0.25 +
			float64(effectivenessRate)*0.15,
	))

	return domain.PortfolioReadiness{
		ReadinessScore:         readiness,
		EvidenceIntegrityIndex: integrity,
		CAPAEffectivenessRate:  effectivenessRate,
		CriticalOpenFindings:   criticalOpen,
	}
}

package core

import "accreditex/pkg/domain"

type (
	AccreditationProgram = domain.AccreditationProgram
	Standard             = domain.Standard
	CAPAReport           = domain.CAPAReport
	PDCACycle            = domain.PDCACycle
	ControlledDocument   = domain.ControlledDocument
	Project              = domain.Project
	Risk                 = domain.Risk

	StandardsBaseline  = domain.StandardsBaseline
	GovernanceLogEntry = domain.GovernanceLogEntry
	GovernanceStatus   = domain.GovernanceStatus
	GovernanceExport   = domain.GovernanceExport
	DriftReport        = domain.DriftReport

	CrossStandardMappingSummary = domain.CrossStandardMappingSummary
	ReusableEvidenceSuggestion  = domain.ReusableEvidenceSuggestion

	CAPACompleteness     = domain.CAPACompleteness
	ArtifactCompleteness = domain.ArtifactCompleteness
	ClosureDecision      = domain.ClosureDecision
	PortfolioReadiness   = domain.PortfolioReadiness

	MonthlyQualityOutcomeSnapshot = domain.MonthlyQualityOutcomeSnapshot
	SnapshotInput                 = domain.SnapshotInput
	GuideReadinessCorrelation     = domain.GuideReadinessCorrelation
	AuditRiskInput                = domain.AuditRiskInput
	PredictiveAuditRisk           = domain.PredictiveAuditRisk
)

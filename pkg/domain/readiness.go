package domain

// CAPACompleteness scores one CAPA report against the required closure
// evidence checklist.
type CAPACompleteness struct {
	CompletenessScore int      `json:"completenessScore"`
	MissingFields     []string `json:"missingFields"`
	IsClosureReady    bool     `json:"isClosureReady"`
}

// ArtifactCompleteness scores a controlled document or PDCA cycle against its
// required-field checklist.
type ArtifactCompleteness struct {
	CompletenessScore int      `json:"completenessScore"`
	MissingFields     []string `json:"missingFields"`
}

// ClosureDecision is the outcome of a CAPA closure request under the active
// validation policy.
type ClosureDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// PortfolioReadiness aggregates per-project completeness into organization
// level survey-preparedness metrics.
type PortfolioReadiness struct {
	ReadinessScore         int `json:"readinessScore"`
	EvidenceIntegrityIndex int `json:"evidenceIntegrityIndex"`
	CAPAEffectivenessRate  int `json:"capaEffectivenessRate"`
	CriticalOpenFindings   int `json:"criticalOpenFindings"`
}

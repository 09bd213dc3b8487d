// Package domain defines the plain-data accreditation entities and computed
// result records shared by the governance, crosswalk, readiness, and outcome
// engines. Records carry no behavior beyond small presence helpers; all
// scoring logic lives in the internal packages.
package domain

import "time"

// Criticality ranks how severe a standard's non-compliance is during a survey.
type Criticality string

// Standard criticality bands used by accreditation programs.
const (
	CriticalityHigh   Criticality = "High"
	CriticalityMedium Criticality = "Medium"
	CriticalityLow    Criticality = "Low"
)

// ProjectStatus enumerates accreditation project workflow states.
type ProjectStatus string

// Canonical project statuses.
const (
	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectFinalized  ProjectStatus = "Finalized"
)

// RiskStatus enumerates risk register states.
type RiskStatus string

// Canonical risk statuses.
const (
	RiskOpen      RiskStatus = "Open"
	RiskMitigated RiskStatus = "Mitigated"
	RiskClosed    RiskStatus = "Closed"
)

// DocumentStatus enumerates controlled-document lifecycle states.
type DocumentStatus string

// Canonical controlled-document statuses.
const (
	DocumentDraft         DocumentStatus = "Draft"
	DocumentPendingReview DocumentStatus = "Pending Review"
	DocumentApproved      DocumentStatus = "Approved"
)

// LocalizedText holds the bilingual name/content pair used by controlled
// documents. Either side may be empty for legacy records.
type LocalizedText struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// AccreditationProgram identifies one accreditation scheme (e.g. JCI, CBAHI).
type AccreditationProgram struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Standard is a single accreditation requirement within a program. Identity is
// StandardID scoped to ProgramID.
type Standard struct {
	StandardID  string      `json:"standardId"`
	ProgramID   string      `json:"programId"`
	Section     string      `json:"section"`
	Description string      `json:"description"`
	Criticality Criticality `json:"criticality,omitempty"`
}

// EffectivenessCheck records whether a CAPA requires and has completed a
// post-closure effectiveness verification.
type EffectivenessCheck struct {
	Required       bool   `json:"required"`
	Completed      bool   `json:"completed"`
	CompletionDate string `json:"completionDate,omitempty"`
	Results        string `json:"results,omitempty"`
}

// ClosureException documents an approved deviation that allows closing an
// incomplete CAPA under strict validation.
type ClosureException struct {
	Reason     string `json:"reason"`
	ApprovedBy string `json:"approvedBy"`
	ApprovedAt string `json:"approvedAt"`
}

// CAPAReport tracks remediation of a compliance finding. Field values may come
// from legacy records with loose typing, so evidence fields are declared as
// any and classified by the readiness package's presence coercion.
type CAPAReport struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title,omitempty"`
	ChecklistItemID    string              `json:"checklistItemId,omitempty"`
	RootCause          any                 `json:"rootCause"`
	CorrectiveAction   any                 `json:"correctiveAction"`
	PreventiveAction   any                 `json:"preventiveAction,omitempty"`
	AssignedTo         any                 `json:"assignedTo,omitempty"`
	DueDate            any                 `json:"dueDate,omitempty"`
	Status             ProjectStatus       `json:"status"`
	EffectivenessCheck *EffectivenessCheck `json:"effectivenessCheck,omitempty"`
	ClosureException   *ClosureException   `json:"closureException,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// PDCAStageEntry is one visited stage in an improvement cycle's history.
type PDCAStageEntry struct {
	Stage     string     `json:"stage"`
	EnteredAt time.Time  `json:"enteredAt"`
	ExitedAt  *time.Time `json:"exitedAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// PDCACycle is a Plan-Do-Check-Act improvement record attached to a project.
type PDCACycle struct {
	ID           string           `json:"id"`
	Title        any              `json:"title"`
	Owner        any              `json:"owner,omitempty"`
	CurrentStage any              `json:"currentStage,omitempty"`
	StageHistory []PDCAStageEntry `json:"stageHistory,omitempty"`
	Status       ProjectStatus    `json:"status,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ControlledDocument is a governed policy/procedure record. Legacy imports may
// carry non-string content or timestamps, hence the any-typed fields.
type ControlledDocument struct {
	ID             string         `json:"id"`
	Name           LocalizedText  `json:"name"`
	Type           string         `json:"type,omitempty"`
	IsControlled   bool           `json:"isControlled"`
	Status         DocumentStatus `json:"status"`
	Content        any            `json:"content,omitempty"`
	CurrentVersion float64        `json:"currentVersion"`
	UploadedAt     any            `json:"uploadedAt,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Category       string         `json:"category,omitempty"`
}

// Project is an accreditation project owning CAPA reports and PDCA cycles.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ProgramID   string        `json:"programId"`
	Status      ProjectStatus `json:"status"`
	Progress    float64       `json:"progress"`
	CAPAReports []CAPAReport  `json:"capaReports,omitempty"`
	PDCACycles  []PDCACycle   `json:"pdcaCycles,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Risk is a risk-register entry. Impact uses a 1-5 ordinal scale; impact >= 4
// with open status counts as a critical open finding.
type Risk struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Likelihood int        `json:"likelihood"`
	Impact     int        `json:"impact"`
	Status     RiskStatus `json:"status"`
	OwnerID    string     `json:"ownerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

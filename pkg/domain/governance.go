package domain

import "time"

// GovernanceAction identifies a baseline lifecycle event recorded in the
// governance audit log.
type GovernanceAction string

// Baseline lifecycle actions. The log is append-only; these are the only
// actions ever written.
const (
	BaselineSet       GovernanceAction = "baseline_set"
	BaselineRefreshed GovernanceAction = "baseline_refreshed"
	BaselineCleared   GovernanceAction = "baseline_cleared"
)

// StandardsBaseline is the accepted reference snapshot of a program's
// standards set. One active baseline per program; a refresh overwrites it.
// Fingerprint is a deterministic function of the sorted, field-projected
// standards list, so insertion order never affects it.
type StandardsBaseline struct {
	ProgramID     string    `json:"programId"`
	Fingerprint   string    `json:"fingerprint"`
	StandardCount int       `json:"standardCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GovernanceLogEntry is one append-only audit record of a baseline mutation.
// Previous* fields carry the replaced baseline's identity for diffing.
type GovernanceLogEntry struct {
	ID                    string           `json:"id"`
	ProgramID             string           `json:"programId"`
	Action                GovernanceAction `json:"action"`
	Timestamp             time.Time        `json:"timestamp"`
	StandardCount         int              `json:"standardCount"`
	Fingerprint           string           `json:"fingerprint"`
	PreviousStandardCount *int             `json:"previousStandardCount,omitempty"`
	PreviousFingerprint   *string          `json:"previousFingerprint,omitempty"`
}

// GovernanceStatus reports baseline presence and drift for a program against
// its current standards collection. DriftDetected is false without a baseline:
// drift is undefined with no reference point.
type GovernanceStatus struct {
	HasBaseline        bool               `json:"hasBaseline"`
	Baseline           *StandardsBaseline `json:"baseline,omitempty"`
	CurrentFingerprint string             `json:"currentFingerprint"`
	StandardCount      int                `json:"standardCount"`
	DriftDetected      bool               `json:"driftDetected"`
}

// GovernanceExport is the full audit trail payload for one program, suitable
// as compliance evidence.
type GovernanceExport struct {
	ProgramID  string               `json:"programId"`
	ExportedAt time.Time            `json:"exportedAt"`
	Baseline   *StandardsBaseline   `json:"baseline"`
	EntryCount int                  `json:"entryCount"`
	Entries    []GovernanceLogEntry `json:"entries"`
}

// DriftReport is a human-readable account of how a program's standards differ
// from its baseline, derived from the canonical fingerprint text.
type DriftReport struct {
	ProgramID     string    `json:"programId"`
	GeneratedAt   time.Time `json:"generatedAt"`
	DriftDetected bool      `json:"driftDetected"`
	Summary       string    `json:"summary"`
	DiffLines     []string  `json:"diffLines,omitempty"`
}

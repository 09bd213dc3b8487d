package domain

// CrossStandardControlMember is one standard belonging to a control group.
type CrossStandardControlMember struct {
	ProgramID   string `json:"programId"`
	ProgramName string `json:"programName"`
	StandardID  string `json:"standardId"`
	Section     string `json:"section"`
	Description string `json:"description"`
}

// CrossStandardControlGroup clusters standards judged equivalent by section
// and keyword signature. Derived, never persisted.
type CrossStandardControlGroup struct {
	ControlKey      string                       `json:"controlKey"`
	Section         string                       `json:"section"`
	KeyTerms        []string                     `json:"keyTerms"`
	Members         []CrossStandardControlMember `json:"members"`
	ProgramsCovered int                          `json:"programsCovered"`
}

// CrossStandardMappingSummary reports how much of a program's standards set is
// covered by cross-program reusable control groups.
type CrossStandardMappingSummary struct {
	TotalStandardsInProgram    int                         `json:"totalStandardsInProgram"`
	MappedStandardsCount       int                         `json:"mappedStandardsCount"`
	MappingCoveragePercent     int                         `json:"mappingCoveragePercent"`
	ReusableControlGroupsCount int                         `json:"reusableControlGroupsCount"`
	TopReusableControlGroups   []CrossStandardControlGroup `json:"topReusableControlGroups"`
}

// ReusableEvidenceSuggestion points at a controlled document likely to satisfy
// a checklist item because it already serves equivalent standards elsewhere.
type ReusableEvidenceSuggestion struct {
	DocumentID         string   `json:"documentId"`
	DocumentName       string   `json:"documentName"`
	MatchScore         int      `json:"matchScore"`
	MatchedStandardIDs []string `json:"matchedStandardIds"`
	Rationale          []string `json:"rationale"`
}

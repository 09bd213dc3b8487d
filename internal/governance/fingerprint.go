// Package governance implements standards-baseline management: canonical
// fingerprinting, drift detection, and the append-only audit log backing
// compliance exports.
package governance

import (
	"encoding/json"
	"sort"

	"accreditex/pkg/domain"
)

// projectedStandard is the canonical field projection used for fingerprints.
// Field order is part of the wire format; changing it invalidates every
// stored baseline.
type projectedStandard struct {
	StandardID  string             `json:"standardId"`
	Section     string             `json:"section"`
	Description string             `json:"description"`
	Criticality domain.Criticality `json:"criticality,omitempty"`
}

// normalizeStandards projects the collection onto the fingerprinted fields and
// sorts by StandardID ascending so insertion order never leaks into the
// canonical form.
func normalizeStandards(standards []domain.Standard) []projectedStandard {
	normalized := make([]projectedStandard, 0, len(standards))
	for _, standard := range standards {
		normalized = append(normalized, projectedStandard{
			StandardID:  standard.StandardID,
			Section:     standard.Section,
			Description: standard.Description,
			Criticality: standard.Criticality,
		})
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].StandardID < normalized[j].StandardID
	})
	return normalized
}

// BuildFingerprint serializes the normalized standards list as compact JSON.
// Two calls with the same multiset of standards in any order yield identical
// output.
func BuildFingerprint(standards []domain.Standard) string {
	normalized := normalizeStandards(standards)
	// Marshal cannot fail: the projection is strings only.
	data, _ := json.Marshal(normalized)
	return string(data)
}

// Package crosswalk clusters standards across accreditation programs into
// reusable control groups by section and keyword signature, surfacing
// duplicate compliance obligations and reusable evidence.
package crosswalk

import (
	"sort"
	"strings"

	"accreditex/pkg/domain"
)

// Grouping parameters. Changing these reshapes every control key, so they are
// fixed constants rather than configuration.
const (
	minTokenLength   = 4
	maxKeyTerms      = 3
	topGroupsLimit   = 6
	generalSignature = "general"
	unclassified     = "unclassified"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "must": {}, "shall": {}, "have": {}, "has": {},
	"are": {}, "is": {}, "of": {}, "to": {}, "in": {}, "on": {}, "by": {},
	"or": {}, "an": {}, "a": {}, "be": {},
}

// normalize lowercases, strips non-alphanumerics, and collapses whitespace.
func normalize(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// extractKeyTerms returns up to max frequent tokens from text, ignoring short
// tokens and stop-words. Ties break alphabetically so the signature is stable
// across runs.
func extractKeyTerms(text string, max int) []string {
	counts := make(map[string]int)
	for _, token := range strings.Fields(normalize(text)) {
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		counts[token]++
	}
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > max {
		terms = terms[:max]
	}
	return terms
}

func sectionKey(section string) string {
	if normalized := normalize(section); normalized != "" {
		return normalized
	}
	return unclassified
}

// controlKey derives the grouping signature for one standard. An empty
// description degrades to the section-only "general" signature: coarse
// grouping is the intended fallback, not an error.
func controlKey(standard domain.Standard) (key, section string, keyTerms []string) {
	section = sectionKey(standard.Section)
	keyTerms = extractKeyTerms(standard.Description, maxKeyTerms)
	signature := generalSignature
	if len(keyTerms) > 0 {
		signature = strings.Join(keyTerms, "|")
	}
	return section + "::" + signature, section, keyTerms
}

// hasCrossProgramCoverage reports whether a group spans more than one program
// and includes the queried one.
func hasCrossProgramCoverage(members []domain.CrossStandardControlMember, currentProgramID string) bool {
	programs := make(map[string]struct{})
	for _, member := range members {
		programs[member.ProgramID] = struct{}{}
	}
	_, hasCurrent := programs[currentProgramID]
	return hasCurrent && len(programs) > 1
}

// RelatedStandards returns standards from other programs sharing the control
// key of the identified standard. Unknown standard IDs yield an empty slice.
func RelatedStandards(standardID, currentProgramID string, standards []domain.Standard) []domain.Standard {
	var source *domain.Standard
	for i := range standards {
		if standards[i].StandardID == standardID && standards[i].ProgramID == currentProgramID {
			source = &standards[i]
			break
		}
	}
	if source == nil {
		return nil
	}
	sourceKey, _, _ := controlKey(*source)

	var related []domain.Standard
	for _, standard := range standards {
		if standard.ProgramID == currentProgramID {
			continue
		}
		if key, _, _ := controlKey(standard); key == sourceKey {
			related = append(related, standard)
		}
	}
	return related
}

// BuildMappingSummary groups all supplied standards by control key and
// reports how much of the current program is covered by cross-program
// reusable groups. Every aggregation step sorts explicitly, so repeated calls
// over the same input produce identical output.
func BuildMappingSummary(currentProgramID string, standards []domain.Standard, programs []domain.AccreditationProgram) domain.CrossStandardMappingSummary {
	programNames := make(map[string]string, len(programs))
	for _, program := range programs {
		programNames[program.ID] = program.Name
	}

	groups := make(map[string]*domain.CrossStandardControlGroup)
	for _, standard := range standards {
		key, section, keyTerms := controlKey(standard)
		name := programNames[standard.ProgramID]
		if name == "" {
			name = standard.ProgramID
		}
		member := domain.CrossStandardControlMember{
			ProgramID:   standard.ProgramID,
			ProgramName: name,
			StandardID:  standard.StandardID,
			Section:     standard.Section,
			Description: standard.Description,
		}
		group, ok := groups[key]
		if !ok {
			groups[key] = &domain.CrossStandardControlGroup{
				ControlKey:      key,
				Section:         section,
				KeyTerms:        keyTerms,
				Members:         []domain.CrossStandardControlMember{member},
				ProgramsCovered: 1,
			}
			continue
		}
		group.Members = append(group.Members, member)
		covered := make(map[string]struct{}, len(group.Members))
		for _, m := range group.Members {
			covered[m.ProgramID] = struct{}{}
		}
		group.ProgramsCovered = len(covered)
	}

	totalInProgram := 0
	for _, standard := range standards {
		if standard.ProgramID == currentProgramID {
			totalInProgram++
		}
	}

	var crossProgram []domain.CrossStandardControlGroup
	for _, group := range groups {
		if hasCrossProgramCoverage(group.Members, currentProgramID) {
			crossProgram = append(crossProgram, *group)
		}
	}
	sort.Slice(crossProgram, func(i, j int) bool {
		if crossProgram[i].ProgramsCovered != crossProgram[j].ProgramsCovered {
			return crossProgram[i].ProgramsCovered > crossProgram[j].ProgramsCovered
		}
		if len(crossProgram[i].Members) != len(crossProgram[j].Members) {
			return len(crossProgram[i].Members) > len(crossProgram[j].Members)
		}
		return crossProgram[i].ControlKey < crossProgram[j].ControlKey
	})

	mapped := make(map[string]struct{})
	for _, group := range crossProgram {
		for _, member := range group.Members {
			if member.ProgramID == currentProgramID {
				mapped[member.StandardID] = struct{}{}
			}
		}
	}

	coverage := 0
	if totalInProgram > 0 {
		coverage = int(float64(len(mapped))/float64(totalInProgram)*100 + 0.5)
	}

	top := crossProgram
	if len(top) > topGroupsLimit {
		top = top[:topGroupsLimit]
	}

	return domain.CrossStandardMappingSummary{
		TotalStandardsInProgram:    totalInProgram,
		MappedStandardsCount:       len(mapped),
		MappingCoveragePercent:     coverage,
		ReusableControlGroupsCount: len(crossProgram),
		TopReusableControlGroups:   top,
	}
}

package crosswalk

import (
	"sort"
	"strings"

	"accreditex/pkg/domain"
)

const defaultMaxSuggestions = 5

// EvidenceQuery identifies the checklist item being worked and the corpus to
// search for reusable controlled documents.
type EvidenceQuery struct {
	StandardID          string
	ChecklistText       string
	CurrentProgramID    string
	Standards           []domain.Standard
	Documents           []domain.ControlledDocument
	ExistingEvidenceIDs []string
	MaxSuggestions      int
}

func lowerText(value any) string {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return ""
}

func tokenize(value string) []string {
	var tokens []string
	for _, token := range strings.Fields(normalize(value)) {
		if len(token) >= minTokenLength {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// SuggestReusableEvidence ranks controlled documents already serving
// equivalent standards in other programs as candidate evidence for a
// checklist item. Scoring: a document tag equal to a related standard ID
// scores 4, a standard ID appearing in the document name or category scores
// 3, and each shared key term scores 1. Zero-score documents are dropped,
// uncontrolled and already-attached ones are skipped.
func SuggestReusableEvidence(query EvidenceQuery) []domain.ReusableEvidenceSuggestion {
	maxSuggestions := query.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}
	existing := make(map[string]struct{}, len(query.ExistingEvidenceIDs))
	for _, id := range query.ExistingEvidenceIDs {
		existing[id] = struct{}{}
	}

	related := RelatedStandards(query.StandardID, query.CurrentProgramID, query.Standards)

	relatedIDSet := map[string]struct{}{strings.ToLower(query.StandardID): {}}
	for _, standard := range related {
		relatedIDSet[strings.ToLower(standard.StandardID)] = struct{}{}
	}
	relatedIDs := make([]string, 0, len(relatedIDSet))
	for id := range relatedIDSet {
		relatedIDs = append(relatedIDs, id)
	}
	sort.Strings(relatedIDs)

	termSet := make(map[string]struct{})
	for _, token := range tokenize(query.ChecklistText) {
		termSet[token] = struct{}{}
	}
	for _, standard := range related {
		for _, token := range tokenize(standard.Description) {
			termSet[token] = struct{}{}
		}
	}

	var suggestions []domain.ReusableEvidenceSuggestion
	for _, doc := range query.Documents {
		if !doc.IsControlled {
			continue
		}
		if _, attached := existing[doc.ID]; attached {
			continue
		}

		score := 0
		var rationale []string
		seenRationale := make(map[string]struct{})
		matched := make(map[string]struct{})

		tags := make([]string, 0, len(doc.Tags))
		for _, tag := range doc.Tags {
			tags = append(tags, strings.ToLower(tag))
		}
		nameText := strings.ToLower(doc.Name.EN) + " " + strings.ToLower(doc.Name.AR)
		categoryText := strings.ToLower(doc.Category)

		for _, tag := range tags {
			if _, ok := relatedIDSet[tag]; ok {
				score += 4
				matched[strings.ToUpper(tag)] = struct{}{}
				if _, dup := seenRationale["tag:"+tag]; !dup {
					seenRationale["tag:"+tag] = struct{}{}
					rationale = append(rationale, "Tag match: "+tag)
				}
			}
		}
		for _, relatedID := range relatedIDs {
			if strings.Contains(nameText, relatedID) || strings.Contains(categoryText, relatedID) {
				score += 3
				matched[strings.ToUpper(relatedID)] = struct{}{}
				if _, dup := seenRationale["ref:"+relatedID]; !dup {
					seenRationale["ref:"+relatedID] = struct{}{}
					rationale = append(rationale, "Reference match: "+relatedID)
				}
			}
		}
		for term := range termSet {
			inTag := false
			for _, tag := range tags {
				if strings.Contains(tag, term) {
					inTag = true
					break
				}
			}
			if inTag || strings.Contains(nameText, term) {
				score++
			}
		}
		if score == 0 {
			continue
		}

		matchedIDs := make([]string, 0, len(matched))
		for id := range matched {
			matchedIDs = append(matchedIDs, id)
		}
		sort.Strings(matchedIDs)
		if len(rationale) > 3 {
			rationale = rationale[:3]
		}

		name := doc.Name.EN
		if name == "" {
			name = doc.Name.AR
		}
		if name == "" {
			name = doc.ID
		}
		suggestions = append(suggestions, domain.ReusableEvidenceSuggestion{
			DocumentID:         doc.ID,
			DocumentName:       name,
			MatchScore:         score,
			MatchedStandardIDs: matchedIDs,
			Rationale:          rationale,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].MatchScore != suggestions[j].MatchScore {
			return suggestions[i].MatchScore > suggestions[j].MatchScore
		}
		return suggestions[i].DocumentID < suggestions[j].DocumentID
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

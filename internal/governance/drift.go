package governance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"accreditex/pkg/domain"
)

// DriftReport explains how the current standards collection differs from the
// stored baseline, one canonical line per added or removed standard. Without
// a baseline (or with a corrupt one) the report carries no diff: drift is
// undefined without a reference point.
func (s *Service) DriftReport(ctx context.Context, programID string, standards []domain.Standard) domain.DriftReport {
	report := domain.DriftReport{
		ProgramID:   programID,
		GeneratedAt: s.clock.Now(),
	}

	baseline := s.Baseline(ctx, programID)
	if baseline == nil {
		report.Summary = "no baseline recorded"
		return report
	}

	baselineLines, ok := fingerprintLines(baseline.Fingerprint)
	if !ok {
		report.Summary = "no baseline recorded"
		return report
	}
	currentLines, _ := fingerprintLines(BuildFingerprint(standards))

	if baselineLines == currentLines {
		report.Summary = "standards match baseline"
		return report
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineIndex := dmp.DiffLinesToChars(baselineLines, currentLines)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineIndex)

	var added, removed int
	for _, diff := range diffs {
		for _, line := range splitDiffLines(diff.Text) {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				added++
				report.DiffLines = append(report.DiffLines, "+ "+line)
			case diffmatchpatch.DiffDelete:
				removed++
				report.DiffLines = append(report.DiffLines, "- "+line)
			}
		}
	}

	report.DriftDetected = true
	report.Summary = fmt.Sprintf("%d standard(s) added, %d removed since baseline", added, removed)
	return report
}

// fingerprintLines expands a canonical fingerprint into one JSON line per
// standard so the diff engine operates at standard granularity.
func fingerprintLines(fingerprint string) (string, bool) {
	var normalized []projectedStandard
	if err := json.Unmarshal([]byte(fingerprint), &normalized); err != nil {
		return "", false
	}
	var out []byte
	for _, standard := range normalized {
		line, _ := json.Marshal(standard)
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out), true
}

func splitDiffLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			if i > start {
				lines = append(lines, text[start:i])
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

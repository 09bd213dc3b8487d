package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"accreditex/pkg/domain"
)

const testPortfolioYAML = `
programs:
  - id: jci
    name: Joint Commission International
  - id: cbahi
    name: CBAHI
standards:
  - standardId: JCI-IPC-01
    programId: jci
    section: Infection Prevention and Control
    description: Hand hygiene program with monitoring and audit
  - standardId: CBAHI-IPC-09
    programId: cbahi
    section: Infection Prevention and Control
    description: Hand hygiene monitoring program with regular audit
documents:
  - id: doc-1
    name:
      en: Hand Hygiene Policy
      ar: ""
    isControlled: true
    status: Approved
    currentVersion: 2
    tags: [cbahi-ipc-09]
    category: Policies
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// runCLI executes the root command against the in-memory kv driver and
// returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ACCREDITEX_KV_DRIVER", "memory")
	var buf bytes.Buffer
	root := newRootCommand(&buf)
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return buf.String(), err
}

func TestBaselineSetAndShow(t *testing.T) {
	data := writeTestFile(t, "portfolio.yaml", testPortfolioYAML)

	out, err := runCLI(t, "baseline", "set", "--program", "jci", "--data", data)
	if err != nil {
		t.Fatalf("baseline set: %v", err)
	}
	var baseline domain.StandardsBaseline
	if err := json.Unmarshal([]byte(out), &baseline); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if baseline.Fingerprint == "" || baseline.StandardCount != 1 {
		t.Fatalf("unexpected baseline %+v", baseline)
	}
}

func TestStatusFailsWithoutDataFile(t *testing.T) {
	_, err := runCLI(t, "status", "--program", "jci")
	if err == nil {
		t.Fatalf("expected missing --data to fail")
	}
	var ee *exitErr
	if !errors.As(err, &ee) || ee.code != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
}

func TestSnapshotRecordParsesYAMLInput(t *testing.T) {
	input := writeTestFile(t, "kpi.yaml", strings.Join([]string{
		"readinessScore: 82.4",
		"guideCompletionPercent: 64",
		"assessorExportsLast30Days: 3",
		"reviewerSignOffRatePercent: 91",
		"criticalOpenFindings: 1",
	}, "\n"))

	out, err := runCLI(t, "snapshot", "record", "--input", input)
	if err != nil {
		t.Fatalf("snapshot record: %v", err)
	}
	var snapshot domain.MonthlyQualityOutcomeSnapshot
	if err := json.Unmarshal([]byte(out), &snapshot); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if snapshot.ReadinessScore != 82 || snapshot.ReviewerSignOffRatePercent != 91 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestRiskCommandScoresInput(t *testing.T) {
	input := writeTestFile(t, "risk.json", `{
  "readinessScore": 62,
  "evidenceIntegrityIndex": 68,
  "criticalOpenFindings": 6,
  "openCapas": 12,
  "reviewerSignOffRatePercent": 20
}`)

	out, err := runCLI(t, "risk", "--input", input)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	var result domain.PredictiveAuditRisk
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.Score != 100 || result.Level != domain.RiskLevelHigh {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestEvidenceCommandSuggestsDocuments(t *testing.T) {
	data := writeTestFile(t, "portfolio.yaml", testPortfolioYAML)

	out, err := runCLI(t, "evidence",
		"--program", "jci",
		"--standard", "JCI-IPC-01",
		"--checklist", "hand hygiene compliance audit",
		"--data", data,
	)
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	var suggestions []domain.ReusableEvidenceSuggestion
	if err := json.Unmarshal([]byte(out), &suggestions); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(suggestions) != 1 || suggestions[0].DocumentID != "doc-1" {
		t.Fatalf("unexpected suggestions %+v", suggestions)
	}
}

func TestMappingCommandSummarizesCoverage(t *testing.T) {
	data := writeTestFile(t, "portfolio.yaml", testPortfolioYAML)

	out, err := runCLI(t, "mapping", "--program", "jci", "--data", data)
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	var summary domain.CrossStandardMappingSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if summary.TotalStandardsInProgram != 1 || summary.MappedStandardsCount != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

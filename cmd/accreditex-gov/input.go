package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"accreditex/pkg/domain"
)

// portfolioFile is the on-disk portfolio layout accepted by --data. YAML and
// JSON are both supported; field names follow the domain JSON tags.
type portfolioFile struct {
	Programs  []domain.AccreditationProgram `json:"programs"`
	Standards []domain.Standard             `json:"standards"`
	Projects  []domain.Project              `json:"projects"`
	Risks     []domain.Risk                 `json:"risks"`
	Documents []domain.ControlledDocument   `json:"documents"`
}

// loadPortfolio reads and decodes the --data file. JSON is detected by
// extension; everything else goes through the YAML decoder.
func loadPortfolio(path string) (*portfolioFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, codeError(3, "--data file required for this command")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, codeError(3, "read data file: %s", err)
	}
	var portfolio portfolioFile
	if err := decodeByExtension(path, raw, &portfolio); err != nil {
		return nil, codeError(3, "parse %s: %s", path, err)
	}
	return &portfolio, nil
}

// loadInput decodes an arbitrary input file (snapshot or risk payloads) into v.
func loadInput(path string, v any) error {
	if strings.TrimSpace(path) == "" {
		return codeError(3, "--input file required for this command")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return codeError(3, "read input file: %s", err)
	}
	if err := decodeByExtension(path, raw, v); err != nil {
		return codeError(3, "parse %s: %s", path, err)
	}
	return nil
}

func decodeByExtension(path string, raw []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(raw, v)
	case ".yaml", ".yml", "":
		return decodeYAML(raw, v)
	default:
		return fmt.Errorf("unsupported data format %q", filepath.Ext(path))
	}
}

// decodeYAML routes YAML documents through JSON so the domain types' JSON
// field names apply to YAML keys as well.
func decodeYAML(raw []byte, v any) error {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return err
	}
	bridged, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(bridged, v)
}

// standardsFor filters the portfolio's standards down to one program, or
// returns all standards when programID is empty.
func (p *portfolioFile) standardsFor(programID string) []domain.Standard {
	if programID == "" {
		return p.Standards
	}
	var out []domain.Standard
	for _, standard := range p.Standards {
		if standard.ProgramID == programID {
			out = append(out, standard)
		}
	}
	return out
}

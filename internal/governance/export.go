package governance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"accreditex/internal/blob"
	"accreditex/pkg/domain"
)

// Export assembles the full audit trail payload for a program. An empty log
// exports as an empty entries array, never null.
func (s *Service) Export(ctx context.Context, programID string) domain.GovernanceExport {
	entries := s.Log(ctx, programID)
	return domain.GovernanceExport{
		ProgramID:  programID,
		ExportedAt: s.clock.Now(),
		Baseline:   s.Baseline(ctx, programID),
		EntryCount: len(entries),
		Entries:    entries,
	}
}

// ExportJSON renders the audit trail as pretty-printed JSON suitable for
// attaching to compliance evidence.
func (s *Service) ExportJSON(ctx context.Context, programID string) (string, error) {
	payload, err := json.MarshalIndent(s.Export(ctx, programID), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode governance export: %w", err)
	}
	return string(payload), nil
}

// ArchiveExport writes the export payload to blob storage under
// governance-exports/{programId}/{timestamp}.json and returns the stored
// object's metadata. Blob keys embed the capture time, so repeated archives
// never collide.
func (s *Service) ArchiveExport(ctx context.Context, programID string, store blob.Store) (blob.Info, error) {
	payload, err := s.ExportJSON(ctx, programID)
	if err != nil {
		return blob.Info{}, err
	}
	key := fmt.Sprintf("governance-exports/%s/%s.json", programID, s.clock.Now().Format("20060102T150405Z"))
	info, err := store.Put(ctx, key, strings.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"program-id": programID},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive governance export: %w", err)
	}
	return info, nil
}

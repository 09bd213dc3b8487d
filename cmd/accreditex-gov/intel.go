package main

import (
	"io"

	"github.com/spf13/cobra"

	"accreditex/internal/crosswalk"
	"accreditex/pkg/domain"
)

func newMappingCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string
	var standardID string

	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Cluster standards into reusable cross-program control groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			portfolio, err := loadPortfolio(flags.dataPath)
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()

			if standardID != "" {
				related := svc.RelatedStandards(cmd.Context(), standardID, programID, portfolio.Standards)
				return printJSON(out, related)
			}
			summary := svc.CrossStandardMapping(cmd.Context(), programID, portfolio.Standards, portfolio.Programs)
			return printJSON(out, summary)
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	cmd.Flags().StringVar(&standardID, "standard", "", "Show standards from other programs equivalent to this one")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

func newEvidenceCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string
	var standardID string
	var checklistText string
	var exclude []string
	var limit int

	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Suggest reusable controlled documents for a checklist item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			portfolio, err := loadPortfolio(flags.dataPath)
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()

			suggestions := svc.SuggestReusableEvidence(cmd.Context(), crosswalk.EvidenceQuery{
				StandardID:          standardID,
				ChecklistText:       checklistText,
				CurrentProgramID:    programID,
				Standards:           portfolio.Standards,
				Documents:           portfolio.Documents,
				ExistingEvidenceIDs: exclude,
				MaxSuggestions:      limit,
			})
			return printJSON(out, suggestions)
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	cmd.Flags().StringVar(&standardID, "standard", "", "Standard the checklist item belongs to")
	cmd.Flags().StringVar(&checklistText, "checklist", "", "Checklist item text")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Document IDs already attached as evidence (may be repeated)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum suggestions (default 5)")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("standard")
	return cmd
}

func newReadinessCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Compute the weighted portfolio survey-readiness aggregate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			portfolio, err := loadPortfolio(flags.dataPath)
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			result := svc.PortfolioReadiness(cmd.Context(), portfolio.Projects, portfolio.Risks, portfolio.Documents)
			return printJSON(out, result)
		},
	}
	return cmd
}

func newSnapshotCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record or list monthly quality-outcome snapshots",
	}

	var inputPath string
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Capture this month's KPI snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input domain.SnapshotInput
			if err := loadInput(inputPath, &input); err != nil {
				return err
			}
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			snapshot, err := svc.RecordOutcomeSnapshot(cmd.Context(), input)
			if err != nil {
				return codeError(1, "record snapshot: %s", err)
			}
			return printJSON(out, snapshot)
		},
	}
	recordCmd.Flags().StringVar(&inputPath, "input", "", "KPI input file (YAML or JSON)")
	_ = recordCmd.MarkFlagRequired("input")

	var months int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List retained snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			if months > 0 {
				snapshots, err := svc.RecentOutcomeSnapshots(cmd.Context(), months)
				if err != nil {
					return codeError(1, "list snapshots: %s", err)
				}
				return printJSON(out, snapshots)
			}
			snapshots, err := svc.OutcomeSnapshots(cmd.Context())
			if err != nil {
				return codeError(1, "list snapshots: %s", err)
			}
			return printJSON(out, snapshots)
		},
	}
	listCmd.Flags().IntVar(&months, "months", 0, "Limit to the most recent N months, oldest first")

	cmd.AddCommand(recordCmd, listCmd)
	return cmd
}

func newCorrelationCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "correlation",
		Short: "Correlate guide completion with readiness over recent months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			result, err := svc.GuideReadinessCorrelation(cmd.Context(), months)
			if err != nil {
				return codeError(1, "correlation: %s", err)
			}
			return printJSON(out, result)
		},
	}
	cmd.Flags().IntVar(&months, "months", 6, "Months of snapshots to correlate")
	return cmd
}

func newRiskCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score predictive audit risk from portfolio signals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input domain.AuditRiskInput
			if err := loadInput(inputPath, &input); err != nil {
				return err
			}
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			result := svc.PredictiveAuditRisk(cmd.Context(), input)
			return printJSON(out, result)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "Risk signal input file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

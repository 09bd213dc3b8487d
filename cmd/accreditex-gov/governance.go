package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newBaselineCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage per-program standards baselines",
	}
	cmd.PersistentFlags().StringVar(&programID, "program", "", "Accreditation program ID")
	_ = cmd.MarkPersistentFlagRequired("program")

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Fingerprint the program's standards and accept them as baseline",
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
			baseline, err := svc.SetStandardsBaseline(cmd.Context(), programID, portfolio.standardsFor(programID))
			if err != nil {
				return codeError(1, "set baseline: %s", err)
			}
			return printJSON(out, baseline)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active baseline, if any",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			baseline := svc.StandardsBaseline(cmd.Context(), programID)
			if baseline == nil {
				return codeError(2, "no baseline recorded for program %s", programID)
			}
			return printJSON(out, baseline)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the baseline, logging the clearance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := svc.ClearStandardsBaseline(cmd.Context(), programID); err != nil {
				return codeError(1, "clear baseline: %s", err)
			}
			return printJSON(out, map[string]string{"programId": programID, "baseline": "cleared"})
		},
	}

	cmd.AddCommand(setCmd, showCmd, clearCmd)
	return cmd
}

func newStatusCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report baseline presence and drift for a program",
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
			status := svc.GovernanceStatus(cmd.Context(), programID, portfolio.standardsFor(programID))
			if err := printJSON(out, status); err != nil {
				return err
			}
			if status.DriftDetected {
				return codeError(2, "standards drift detected for program %s", programID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

func newDriftCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Diff the current standards set against the baseline",
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
			report := svc.StandardsDriftReport(cmd.Context(), programID, portfolio.standardsFor(programID))
			return printJSON(out, report)
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

func newLogCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect or clear the governance audit log",
	}
	cmd.PersistentFlags().StringVar(&programID, "program", "", "Accreditation program ID")
	_ = cmd.MarkPersistentFlagRequired("program")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the audit log, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			return printJSON(out, svc.GovernanceLog(cmd.Context(), programID))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Wipe the program's audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, false)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := svc.ClearGovernanceLog(cmd.Context(), programID); err != nil {
				return codeError(1, "clear log: %s", err)
			}
			return printJSON(out, map[string]string{"programId": programID, "log": "cleared"})
		},
	}

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}

func newExportCommand(out io.Writer, flags *rootFlags) *cobra.Command {
	var programID string
	var archive bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Assemble the audit trail payload as compliance evidence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := openService(flags, archive)
			if err != nil {
				return err
			}
			defer closeFn()

			if archive {
				info, err := svc.ArchiveGovernanceExport(cmd.Context(), programID)
				if err != nil {
					return codeError(1, "archive export: %s", err)
				}
				return printJSON(out, info)
			}
			payload, err := svc.ExportGovernanceJSON(cmd.Context(), programID)
			if err != nil {
				return codeError(1, "export: %s", err)
			}
			_, err = io.WriteString(out, payload+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	cmd.Flags().BoolVar(&archive, "archive", false, "Write the export to the configured blob store instead of stdout")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

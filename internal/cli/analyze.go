package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/output"
	"github.com/sdejongh/docrecon/pkg/reconcile"
	"github.com/sdejongh/docrecon/pkg/storage"
)

// AnalyzeFlags holds analyze command flags
type AnalyzeFlags struct {
	ReconcileFlags
	UnmatchedReport string
	UnmatchedFormat string
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand(g *GlobalFlags) *cobra.Command {
	f := &AnalyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report which documents the upload log accounts for",
		Long: `Match every entry of the upload log against the document directory and
report matched and unmatched files with their byte, character and estimated
token totals. Entries may be truncated as PREFIX...SUFFIX.

Token counts are estimates (characters / divisor), not tokenizer output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, f)
		},
	}

	addReconcileFlags(cmd, &f.ReconcileFlags)
	addEstimateFlags(cmd, &f.ReconcileFlags)
	cmd.Flags().StringVar(&f.UnmatchedReport, "unmatched-report", "", "write the unmatched file list to file")
	cmd.Flags().StringVar(&f.UnmatchedFormat, "unmatched-format", "human", "unmatched report format: human, json")

	return cmd
}

func runAnalyze(cmd *cobra.Command, g *GlobalFlags, f *AnalyzeFlags) error {
	start := time.Now()

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := applyFlagsToConfig(cmd, cfg, g, &f.ReconcileFlags, false); err != nil {
		return err
	}
	if err := validateInputs(cfg, true); err != nil {
		return err
	}

	operation, err := newOperation(cfg, cfg.Reconcile.Ambiguity, false)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}

	s, err := newSession(cmd, cfg, g)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := s.logger.WithFields(logging.Fields{"operation": operation.ID})

	list, err := s.readEntries()
	if err != nil {
		return err
	}

	backend, err := s.backend()
	if err != nil {
		return err
	}
	defer backend.Close()

	dir, err := storage.Snapshot(s.ctx, backend)
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}

	policy, err := reconcile.PolicyFor(operation.Ambiguity)
	if err != nil {
		return err
	}

	report := reconcile.New(policy, logger).Reconcile(s.ctx, dir, list)
	report.OperationID = operation.ID
	report.LogPath = operation.LogPath

	s.aggregator(backend).Apply(s.ctx, report)

	report.StartTime = start
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(start)

	logger.Info(s.ctx, "Analysis completed", logging.Fields{
		"matched":   len(report.Matched),
		"unmatched": len(report.Unmatched),
		"ambiguous": report.Stats.Ambiguous,
		"not_found": report.Stats.NotFound,
		"errors":    len(report.Errors),
	})

	if err := s.render(func(w io.Writer) error {
		return s.formatter.Reconciliation(w, report)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if f.UnmatchedReport != "" {
		if err := output.WriteUnmatchedReport(report, f.UnmatchedReport, f.UnmatchedFormat); err != nil {
			return err
		}
	}

	return statusResult(report.Status)
}

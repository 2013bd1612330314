package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/prune"
	"github.com/sdejongh/docrecon/pkg/reconcile"
)

// DeleteFlags holds delete command flags
type DeleteFlags struct {
	ReconcileFlags
	DryRun bool
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(g *GlobalFlags) *cobra.Command {
	f := &DeleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete documents the upload log accounts for",
		Long: `Resolve every entry of the upload log and delete the file it points to.
Files already removed are reported as already-deleted. Ambiguous
truncated entries are skipped unless --ambiguity selects another policy.
Deleting files can leave a skipped pattern with a single candidate, so a
later run may delete it; use --dry-run to review first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, g, f)
		},
	}

	addReconcileFlags(cmd, &f.ReconcileFlags)
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "report what would be deleted without deleting")

	return cmd
}

func runDelete(cmd *cobra.Command, g *GlobalFlags, f *DeleteFlags) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := applyFlagsToConfig(cmd, cfg, g, &f.ReconcileFlags, true); err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Delete.DryRun = f.DryRun
	}
	if err := validateInputs(cfg, true); err != nil {
		return err
	}

	operation, err := newOperation(cfg, cfg.Delete.Ambiguity, cfg.Delete.DryRun)
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

	policy, err := reconcile.PolicyFor(operation.Ambiguity)
	if err != nil {
		return err
	}

	executor := prune.New(backend, reconcile.New(policy, logger), operation.DryRun, logger)
	executor.NewProgress = s.progress

	report, err := executor.Run(s.ctx, list)
	if err != nil {
		return err
	}
	report.OperationID = operation.ID
	report.LogPath = operation.LogPath

	if err := s.render(func(w io.Writer) error {
		return s.formatter.Deletion(w, report)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return statusResult(report.Status)
}

package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/docrecon/pkg/sections"
)

// NewSectionsCommand creates the sections command
func NewSectionsCommand(g *GlobalFlags) *cobra.Command {
	f := &ReconcileFlags{}

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Report section sizes of the markdown documents",
		Long: `Walk the document directory recursively, split every markdown file at its
headings (front matter removed) and report the distribution of estimated
token counts per section: min, max, mean, median, 90th and 95th percentile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.Directory, "dir", "d", "", "document directory (required unless set in config)")
	cmd.Flags().StringSliceVar(&f.Exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().StringVar(&f.Encoding, "encoding", "", "fallback encoding for non UTF-8 content (default iso-8859-1)")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "output format: human, json")
	addEstimateFlags(cmd, f)

	return cmd
}

func runSections(cmd *cobra.Command, g *GlobalFlags, f *ReconcileFlags) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := applyFlagsToConfig(cmd, cfg, g, f, false); err != nil {
		return err
	}
	if err := validateInputs(cfg, false); err != nil {
		return err
	}

	s, err := newSession(cmd, cfg, g)
	if err != nil {
		return err
	}
	defer s.Close()

	backend, err := s.backend()
	if err != nil {
		return err
	}
	defer backend.Close()

	analyzer := sections.NewAnalyzer(backend, s.aggregator(backend), cfg.Estimate.Divisor, s.logger)
	analyzer.NewProgress = s.progress

	report, err := analyzer.Run(s.ctx)
	if err != nil {
		return err
	}
	report.OperationID = uuid.New().String()

	if err := s.render(func(w io.Writer) error {
		return s.formatter.Sections(w, report)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return statusResult(report.Status)
}

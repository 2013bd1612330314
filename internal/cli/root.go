package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the docrecon command tree
func NewRootCommand() *cobra.Command {
	g := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "docrecon",
		Short: "Reconcile a document directory against an upload log",
		Long: `docrecon matches the entries of an upload log against a directory of
markdown documents. Log entries may record truncated names as PREFIX...SUFFIX.
It reports which files were uploaded and which are still pending, can delete
the uploaded ones, and can measure section sizes for chunking.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd, g)

	// Add commands
	rootCmd.AddCommand(NewAnalyzeCommand(g))
	rootCmd.AddCommand(NewDeleteCommand(g))
	rootCmd.AddCommand(NewSectionsCommand(g))
	rootCmd.AddCommand(NewConfigCommand(g))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

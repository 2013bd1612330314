package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	Color      string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, g *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&g.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/docrecon/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&g.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (debug logs to stderr)",
	)
	cmd.PersistentFlags().BoolVarP(
		&g.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().StringVar(&g.Color, "color", "", "colour output: auto, always, never")
	cmd.PersistentFlags().StringVar(&g.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "", "log format: text, json")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// ReconcileFlags holds the matching flags shared by analyze and delete
type ReconcileFlags struct {
	LogFile     string
	Directory   string
	HeaderLabel string
	Extensions  []string
	Exclude     []string
	Ambiguity   string
	Encoding    string
	Divisor     float64
	ReadLimit   string
	Output      string
}

func addReconcileFlags(cmd *cobra.Command, f *ReconcileFlags) {
	cmd.Flags().StringVarP(&f.LogFile, "log", "l", "", "upload log file (required unless set in config)")
	cmd.Flags().StringVarP(&f.Directory, "dir", "d", "", "document directory (required unless set in config)")
	cmd.Flags().StringVar(&f.HeaderLabel, "header", "", "first log line starting with this label is skipped")
	cmd.Flags().StringSliceVar(&f.Extensions, "ext", nil, "file extensions to consider (default .md)")
	cmd.Flags().StringSliceVar(&f.Exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().StringVar(&f.Ambiguity, "ambiguity", "", "ambiguous truncated entries: first, reject, newest")
	cmd.Flags().StringVar(&f.Encoding, "encoding", "", "fallback encoding for non UTF-8 content (default iso-8859-1)")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "output format: human, json")
}

func addEstimateFlags(cmd *cobra.Command, f *ReconcileFlags) {
	cmd.Flags().Float64Var(&f.Divisor, "divisor", 0, "characters per token for estimates (default 4)")
	cmd.Flags().StringVar(&f.ReadLimit, "read-limit", "", "content read limit (e.g., \"10M\", \"512K\")")
}

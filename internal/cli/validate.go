package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/docrecon/internal/platform"
	"github.com/sdejongh/docrecon/pkg/config"
	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/ratelimit"
)

// loadConfig loads configuration from file or returns default
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyGlobalFlags overrides config values with the global flags
func applyGlobalFlags(cfg *config.Config, g *GlobalFlags) {
	if g.Color != "" {
		cfg.Output.Color = g.Color
	}

	// Logging to a file implies logging is enabled
	if g.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = g.LogFile
	}
	if g.LogFormat != "" {
		cfg.Logging.Format = g.LogFormat
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}

	// Disable progress in quiet mode
	if g.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// applyFlagsToConfig overrides config values with command-line flags.
// Only flags the user actually set take effect.
// --ambiguity targets the delete section when forDelete is set.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, g *GlobalFlags, f *ReconcileFlags, forDelete bool) error {
	applyGlobalFlags(cfg, g)

	flags := cmd.Flags()
	if f.LogFile != "" {
		cfg.Reconcile.LogFile = f.LogFile
	}
	if f.Directory != "" {
		cfg.Reconcile.Directory = f.Directory
	}
	if flags.Changed("header") {
		cfg.Reconcile.HeaderLabel = f.HeaderLabel
	}
	if flags.Changed("ext") {
		cfg.Reconcile.Extensions = f.Extensions
	}
	if flags.Changed("exclude") {
		cfg.Reconcile.Exclude = f.Exclude
	}
	if f.Ambiguity != "" {
		if forDelete {
			cfg.Delete.Ambiguity = models.AmbiguityMode(f.Ambiguity)
		} else {
			cfg.Reconcile.Ambiguity = models.AmbiguityMode(f.Ambiguity)
		}
	}
	if f.Encoding != "" {
		cfg.Encoding.Fallback = f.Encoding
	}
	if f.Output != "" {
		cfg.Output.Format = f.Output
	}
	if flags.Changed("divisor") {
		cfg.Estimate.Divisor = f.Divisor
	}
	if f.ReadLimit != "" {
		limit, err := ratelimit.ParseRate(f.ReadLimit)
		if err != nil {
			return fmt.Errorf("invalid --read-limit: %w", err)
		}
		cfg.Performance.ReadLimit = limit
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validateInputs checks that the log file and the directory exist.
// Either one missing is fatal before any matching happens.
func validateInputs(cfg *config.Config, needLog bool) error {
	if needLog {
		if cfg.Reconcile.LogFile == "" {
			return fmt.Errorf("log file is required (use --log or reconcile.log_file)")
		}
		path, err := platform.RequireFile(cfg.Reconcile.LogFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		cfg.Reconcile.LogFile = path
	}

	if cfg.Reconcile.Directory == "" {
		return fmt.Errorf("directory is required (use --dir or reconcile.directory)")
	}
	path, err := platform.RequireDir(cfg.Reconcile.Directory)
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	cfg.Reconcile.Directory = path

	return nil
}

// createLogger creates a logger based on configuration.
// A log file wins; otherwise --verbose streams debug logs to errOut.
func createLogger(cfg *config.Config, verbose bool, errOut io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Logging.Format)

	if cfg.Logging.Enabled && cfg.Logging.File != "" {
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    10 * 1024 * 1024, // 10 MB
			MaxBackups: 5,
		})
	}

	// Hide Close so the logger never closes stderr
	w := struct{ io.Writer }{errOut}
	if verbose {
		return logging.NewStreamLogger(w, format, logging.DebugLevel), nil
	}
	if cfg.Logging.Enabled {
		return logging.NewStreamLogger(w, format, logging.ParseLevel(cfg.Logging.Level)), nil
	}

	return logging.NewNullLogger(), nil
}

// newOperation creates an operation from configuration
func newOperation(cfg *config.Config, ambiguity models.AmbiguityMode, dryRun bool) (*models.Operation, error) {
	operation := &models.Operation{
		ID:          uuid.New().String(),
		LogPath:     cfg.Reconcile.LogFile,
		DirPath:     cfg.Reconcile.Directory,
		HeaderLabel: cfg.Reconcile.HeaderLabel,
		Extensions:  cfg.Reconcile.Extensions,
		Exclude:     cfg.Reconcile.Exclude,
		Ambiguity:   ambiguity,
		Divisor:     cfg.Estimate.Divisor,
		DryRun:      dryRun,
		CreatedAt:   time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

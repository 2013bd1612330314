package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdejongh/docrecon/pkg/aggregate"
	"github.com/sdejongh/docrecon/pkg/config"
	"github.com/sdejongh/docrecon/pkg/entries"
	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/output"
	"github.com/sdejongh/docrecon/pkg/ratelimit"
	"github.com/sdejongh/docrecon/pkg/storage"
	"github.com/sdejongh/docrecon/pkg/textio"
)

// session bundles what every command builds from the resolved config
type session struct {
	ctx       context.Context
	cfg       *config.Config
	out       io.Writer
	errOut    io.Writer
	logger    logging.Logger
	decoder   *textio.Decoder
	formatter output.Formatter
}

func newSession(cmd *cobra.Command, cfg *config.Config, g *GlobalFlags) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := &session{
		ctx:    ctx,
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	decoder, err := textio.NewDecoder(cfg.Encoding.Fallback)
	if err != nil {
		return nil, err
	}
	s.decoder = decoder

	formatter, err := output.NewFormatter(cfg.Output.Format, s.useColor())
	if err != nil {
		return nil, err
	}
	s.formatter = formatter

	logger, err := createLogger(cfg, g.Verbose, s.errOut)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	s.logger = logger

	return s, nil
}

func (s *session) Close() error {
	return s.logger.Close()
}

func (s *session) useColor() bool {
	switch s.cfg.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return !color.NoColor && output.IsTerminal(s.out)
	}
}

// progress returns a progress factory writing to stderr
func (s *session) progress(total int, label string) output.Progress {
	return output.NewProgress(s.errOut, total, label, s.cfg.Output.Progress && !s.cfg.Output.Quiet)
}

// backend opens the document directory with the configured filter
func (s *session) backend() (*storage.Local, error) {
	backend, err := storage.NewLocal(s.cfg.Reconcile.Directory, storage.Filter{
		Extensions: s.cfg.Reconcile.Extensions,
		Exclude:    s.cfg.Reconcile.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	return backend, nil
}

// readEntries parses the upload log
func (s *session) readEntries() ([]models.LogEntry, error) {
	parser := entries.NewParser(s.cfg.Reconcile.HeaderLabel, s.decoder)
	list, enc, err := parser.ParseFile(s.cfg.Reconcile.LogFile)
	if err != nil {
		return nil, err
	}
	s.logger.Info(s.ctx, "Log parsed", logging.Fields{
		"log":      s.cfg.Reconcile.LogFile,
		"entries":  len(list),
		"encoding": enc,
		"fallback": s.decoder.FallbackName(),
	})
	return list, nil
}

// aggregator builds a content reader with the configured limits
func (s *session) aggregator(backend storage.Backend) *aggregate.Aggregator {
	agg := aggregate.New(backend, s.decoder, s.cfg.Estimate.Divisor, ratelimit.NewLimiter(s.cfg.Performance.ReadLimit), s.logger)
	agg.NewProgress = s.progress
	return agg
}

// render writes a report unless quiet
func (s *session) render(write func(io.Writer) error) error {
	if s.cfg.Output.Quiet {
		return nil
	}
	return write(s.out)
}

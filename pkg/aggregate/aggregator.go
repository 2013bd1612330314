// Package aggregate sums byte, character and estimated token counts over
// sets of directory files.
package aggregate

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/output"
	"github.com/sdejongh/docrecon/pkg/ratelimit"
	"github.com/sdejongh/docrecon/pkg/storage"
	"github.com/sdejongh/docrecon/pkg/textio"
)

// DefaultDivisor is the characters-per-token ratio used for estimates
const DefaultDivisor = 4.0

// Aggregator reads file contents and totals their sizes.
// Token counts are estimates (characters / divisor), not tokenizer output.
type Aggregator struct {
	backend storage.Backend
	decoder *textio.Decoder
	divisor float64
	limiter *ratelimit.Limiter
	logger  logging.Logger

	// NewProgress is called once per Sum with the number of files.
	// When nil, no progress is reported.
	NewProgress func(total int, label string) output.Progress
}

// New creates an aggregator. A divisor <= 0 falls back to DefaultDivisor;
// a nil limiter means unlimited reads.
func New(backend storage.Backend, decoder *textio.Decoder, divisor float64, limiter *ratelimit.Limiter, logger logging.Logger) *Aggregator {
	if divisor <= 0 {
		divisor = DefaultDivisor
	}
	return &Aggregator{
		backend: backend,
		decoder: decoder,
		divisor: divisor,
		limiter: limiter,
		logger:  logging.OrNull(logger),
	}
}

// Sum totals files. Unreadable files still contribute their byte size but
// no characters; they are counted in Errored and returned as FileErrors.
func (a *Aggregator) Sum(ctx context.Context, label string, files []models.DirectoryFile) (models.Totals, []models.FileError) {
	var (
		totals models.Totals
		errs   []models.FileError
	)

	progress := a.progress(len(files), label)
	defer progress.Finish()

	for _, file := range files {
		totals.Files++
		totals.Bytes += file.Size

		chars, err := a.Chars(ctx, file.Name)
		if err != nil {
			a.logger.Error(ctx, "failed to read file", err, logging.Fields{
				"file":   file.Name,
				"action": "read",
			})
			errs = append(errs, a.fileError(file, err))
			totals.Errored++
		} else {
			totals.Chars += chars
		}
		progress.Increment()
	}

	totals.EstimatedTokens = float64(totals.Chars) / a.divisor
	return totals, errs
}

// Chars returns the decoded character count of one file
func (a *Aggregator) Chars(ctx context.Context, name string) (int64, error) {
	text, err := a.ReadText(ctx, name)
	if err != nil {
		return 0, err
	}
	return int64(utf8.RuneCountInString(text)), nil
}

// ReadText reads and decodes one file through the rate limiter
func (a *Aggregator) ReadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rc, err := a.backend.Read(ctx, name)
	if err != nil {
		return "", err
	}
	rc = ratelimit.NewReadCloser(ctx, rc, a.limiter)
	defer rc.Close()

	text, enc, err := a.decoder.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if enc != textio.EncodingUTF8 {
		a.logger.Debug(ctx, "decoded with fallback encoding", logging.Fields{"file": name, "encoding": enc})
	}
	return text, nil
}

// Apply fills the matched and unmatched totals of report and folds read
// errors into its status
func (a *Aggregator) Apply(ctx context.Context, report *models.ReconciliationReport) {
	var errs []models.FileError
	report.MatchedTotals, errs = a.Sum(ctx, "matched", report.Matched)
	report.Errors = append(report.Errors, errs...)
	report.UnmatchedTotals, errs = a.Sum(ctx, "unmatched", report.Unmatched)
	report.Errors = append(report.Errors, errs...)
	report.Status = models.StatusFor(report.Errors)
}

func (a *Aggregator) progress(total int, label string) output.Progress {
	if a.NewProgress == nil {
		return output.NewProgress(nil, 0, label, false)
	}
	return a.NewProgress(total, label)
}

func (a *Aggregator) fileError(file models.DirectoryFile, err error) models.FileError {
	return models.FileError{
		Name:      file.Name,
		Op:        "read",
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}

package sections

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/output"
	"github.com/sdejongh/docrecon/pkg/storage"
)

// TextReader reads and decodes one file of a backend
type TextReader interface {
	ReadText(ctx context.Context, name string) (string, error)
}

// Analyzer estimates section sizes over every file a backend walks
type Analyzer struct {
	backend  storage.Backend
	reader   TextReader
	splitter *Splitter
	divisor  float64
	logger   logging.Logger

	// NewProgress is called once per Run with the number of files.
	// When nil, no progress is reported.
	NewProgress func(total int, label string) output.Progress
}

// NewAnalyzer creates a section analyzer. divisor must be > 0.
func NewAnalyzer(backend storage.Backend, reader TextReader, divisor float64, logger logging.Logger) *Analyzer {
	return &Analyzer{
		backend:  backend,
		reader:   reader,
		splitter: NewSplitter(),
		divisor:  divisor,
		logger:   logging.OrNull(logger),
	}
}

// Run walks the backend and summarises the token estimate of every
// non-empty section. Unreadable files are reported and skipped.
func (a *Analyzer) Run(ctx context.Context) (*models.SectionReport, error) {
	start := time.Now()
	report := &models.SectionReport{
		DirPath: a.backend.Root(),
		Divisor: a.divisor,
	}

	files, err := a.backend.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	var tokens []float64

	progress := output.NewProgress(nil, 0, "", false)
	if a.NewProgress != nil {
		progress = a.NewProgress(len(files), "sections")
	}
	for _, file := range files {
		text, err := a.reader.ReadText(ctx, file.Name)
		if err != nil {
			a.logger.Error(ctx, "failed to read file", err, logging.Fields{"file": file.Name, "action": "read"})
			report.Errors = append(report.Errors, models.FileError{
				Name:      file.Name,
				Op:        "read",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			progress.Increment()
			continue
		}

		parts := a.splitter.Split([]byte(text))
		for _, part := range parts {
			tokens = append(tokens, float64(utf8.RuneCountInString(part))/a.divisor)
		}
		a.logger.Debug(ctx, "file analyzed", logging.Fields{"file": file.Name, "sections": len(parts)})
		progress.Increment()
	}
	progress.Finish()

	report.Stats = Summarize(tokens)
	report.Stats.Files = len(files)
	report.Duration = time.Since(start)
	report.Status = models.StatusFor(report.Errors)
	return report, nil
}

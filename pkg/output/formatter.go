package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/docrecon/pkg/models"
)

// Formatter renders run reports.
// Implementations include human-readable and JSON formatters.
type Formatter interface {
	// Reconciliation renders the matched/unmatched summary
	Reconciliation(w io.Writer, report *models.ReconciliationReport) error

	// Deletion renders the deletion action log and counters
	Deletion(w io.Writer, report *models.DeletionReport) error

	// Sections renders the section-size distribution
	Sections(w io.Writer, report *models.SectionReport) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for name ("human" or "json")
func NewFormatter(name string, color bool) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(color), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, json)", name)
	}
}

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sdejongh/docrecon/pkg/models"
)

const rule = "------------------------------"

// HumanFormatter formats output in human-readable form
type HumanFormatter struct {
	printer *message.Printer

	header  *color.Color
	label   *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
	dim     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(useColor bool) *HumanFormatter {
	f := &HumanFormatter{
		printer: message.NewPrinter(language.English),
		header:  color.New(color.FgBlue, color.Bold),
		label:   color.New(color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		dim:     color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{f.header, f.label, f.success, f.warning, f.failure, f.dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Reconciliation prints the matched/unmatched summary
func (f *HumanFormatter) Reconciliation(w io.Writer, report *models.ReconciliationReport) error {
	s := report.Stats
	all := report.MatchedTotals
	all.Add(report.UnmatchedTotals)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total files on disk:   %d\n", s.DirectoryFiles)
	fmt.Fprintf(w, "Log entries processed: %d\n", s.Entries)
	f.success.Fprintf(w, "Matched (uploaded):    %d\n", len(report.Matched))
	f.warning.Fprintf(w, "Unmatched (pending):   %d\n", len(report.Unmatched))
	fmt.Fprintf(w, "Ambiguous entries:     %d", s.Ambiguous)
	if s.Ambiguous > 0 {
		f.dim.Fprintf(w, "  (policy %s, %d left unresolved)", report.Ambiguity, s.AmbiguousUnresolved)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Not found entries:     %d", s.NotFound)
	if s.Malformed > 0 {
		f.dim.Fprintf(w, "  (%d malformed)", s.Malformed)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, rule)
	f.writeTotals(w, "ALL FILES", all)
	fmt.Fprintln(w, rule)
	f.writeTotals(w, "MATCHED FILES", report.MatchedTotals)
	fmt.Fprintln(w, rule)
	f.writeTotals(w, "UNMATCHED FILES (still to embed)", report.UnmatchedTotals)
	fmt.Fprintln(w, rule)
	f.dim.Fprintln(w, "Token counts are estimates (characters / divisor), not tokenizer output.")

	if ambiguous := ambiguousResults(report.Results); len(ambiguous) > 0 {
		fmt.Fprintln(w, rule)
		f.label.Fprintln(w, "Ambiguous entries:")
		for _, r := range ambiguous {
			pick := "unresolved"
			if r.Target != nil {
				pick = "picked " + r.Target.Name
			}
			fmt.Fprintf(w, " - %s (line %d): %s\n", r.Entry.Raw, r.Entry.Line, pick)
			for _, c := range r.Candidates {
				f.dim.Fprintf(w, "     %s\n", c.Name)
			}
		}
	}

	if len(report.Unmatched) > 0 {
		fmt.Fprintln(w, rule)
		f.label.Fprintln(w, "Unmatched files:")
		for _, file := range report.Unmatched {
			fmt.Fprintf(w, " - %s\n", file.Name)
		}
	}

	f.writeErrors(w, report.Errors)
	fmt.Fprintln(w, rule)
	f.writeStatus(w, report.Status, report.Duration)
	return nil
}

// Deletion prints the action log and counters
func (f *HumanFormatter) Deletion(w io.Writer, report *models.DeletionReport) error {
	if report.DryRun {
		f.warning.Fprintln(w, "Dry run: no files were removed.")
	}
	fmt.Fprintf(w, "Found %d files in directory.\n", report.InitialFiles)

	for _, a := range report.Actions {
		c := f.dim
		switch a.Outcome {
		case models.OutcomeDeleted, models.OutcomeWouldDelete:
			c = f.success
		case models.OutcomeAmbiguous, models.OutcomeNotFound:
			c = f.warning
		case models.OutcomeError:
			c = f.failure
		}
		target := a.File
		if target == "" {
			target = a.Entry.Raw
		}
		line := fmt.Sprintf("%-16s %s", a.Outcome, target)
		if a.Reason != "" {
			line += " (" + a.Reason + ")"
		}
		if a.Error != "" {
			line += ": " + a.Error
		}
		c.Fprintln(w, line)
	}

	s := report.Stats
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total processed:  %d\n", s.Processed)
	if report.DryRun {
		fmt.Fprintf(w, "Would delete:     %d\n", s.Deleted)
	} else {
		fmt.Fprintf(w, "Deleted:          %d\n", s.Deleted)
	}
	fmt.Fprintf(w, "Already deleted:  %d\n", s.AlreadyDeleted)
	fmt.Fprintf(w, "Not found:        %d\n", s.NotFound)
	fmt.Fprintf(w, "Ambiguous:        %d\n", s.Ambiguous)
	fmt.Fprintf(w, "Errors:           %d\n", s.Errored)
	fmt.Fprintf(w, "Freed:            %s\n", formatBytes(s.BytesFreed))
	fmt.Fprintf(w, "Remaining files in directory: %d\n", report.RemainingFiles)

	f.writeErrors(w, report.Errors)
	fmt.Fprintln(w, rule)
	f.writeStatus(w, report.Status, report.Duration)
	return nil
}

// Sections prints the section-size distribution
func (f *HumanFormatter) Sections(w io.Writer, report *models.SectionReport) error {
	s := report.Stats
	fmt.Fprintf(w, "Analyzed %d markdown files.\n", s.Files)

	if s.Sections == 0 {
		fmt.Fprintln(w, "No sections found.")
	} else {
		f.header.Fprintf(w, "\n--- Analysis Results (%d sections) ---\n", s.Sections)
		fmt.Fprintf(w, "Min Tokens:      %.1f\n", s.Min)
		fmt.Fprintf(w, "Max Tokens:      %.1f\n", s.Max)
		fmt.Fprintf(w, "Avg Tokens:      %.1f\n", s.Mean)
		fmt.Fprintf(w, "Median Tokens:   %.1f\n", s.Median)
		fmt.Fprintf(w, "90th Percentile: %.1f\n", s.P90)
		fmt.Fprintf(w, "95th Percentile: %.1f\n", s.P95)
		f.dim.Fprintf(w, "Token counts are estimates (characters / %g).\n", report.Divisor)
	}

	f.writeErrors(w, report.Errors)
	f.writeStatus(w, report.Status, report.Duration)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) writeTotals(w io.Writer, title string, t models.Totals) {
	f.header.Fprintf(w, "%s STATS:\n", title)
	fmt.Fprintf(w, "Files:            %d\n", t.Files)
	fmt.Fprintf(w, "Total Bytes:      %s (%s)\n", f.printer.Sprintf("%d", t.Bytes), formatBytes(t.Bytes))
	fmt.Fprintf(w, "Total Characters: %s\n", f.printer.Sprintf("%d", t.Chars))
	fmt.Fprintf(w, "Estimated Tokens: %s\n", f.printer.Sprintf("%.0f", t.EstimatedTokens))
	if t.Errored > 0 {
		f.failure.Fprintf(w, "Unreadable files: %d\n", t.Errored)
	}
}

func (f *HumanFormatter) writeErrors(w io.Writer, errs []models.FileError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, rule)
	f.failure.Fprintln(w, "Errors:")
	for _, e := range errs {
		fmt.Fprintf(w, "  %s [%s]: %s\n", e.Name, e.Op, e.Error)
	}
}

func (f *HumanFormatter) writeStatus(w io.Writer, status models.RunStatus, d time.Duration) {
	c := f.success
	switch status {
	case models.StatusPartial:
		c = f.warning
	case models.StatusFailed:
		c = f.failure
	}
	c.Fprintf(w, "Status: %s", status)
	f.dim.Fprintf(w, " (%s)\n", d.Round(time.Millisecond))
}

func ambiguousResults(results []models.MatchResult) []models.MatchResult {
	var out []models.MatchResult
	for _, r := range results {
		if r.Kind == models.MatchAmbiguous {
			out = append(out, r)
		}
	}
	return out
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/docrecon/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct{}

// JSONFileData represents a directory file
type JSONFileData struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// JSONTotalsData represents aggregated sizes
type JSONTotalsData struct {
	Files           int     `json:"files"`
	Bytes           int64   `json:"bytes"`
	Chars           int64   `json:"chars"`
	EstimatedTokens float64 `json:"estimated_tokens"`
	Errored         int     `json:"errored,omitempty"`
}

// JSONMatchStatsData represents entry-level counters
type JSONMatchStatsData struct {
	Entries             int `json:"entries"`
	Exact               int `json:"exact"`
	Truncated           int `json:"truncated"`
	Ambiguous           int `json:"ambiguous"`
	AmbiguousUnresolved int `json:"ambiguous_unresolved"`
	NotFound            int `json:"not_found"`
	Malformed           int `json:"malformed"`
	DirectoryFiles      int `json:"directory_files"`
}

// JSONAmbiguousData represents one ambiguous entry
type JSONAmbiguousData struct {
	Entry      string   `json:"entry"`
	Line       int      `json:"line"`
	Picked     string   `json:"picked,omitempty"`
	Candidates []string `json:"candidates"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	File  string `json:"file"`
	Entry string `json:"entry,omitempty"`
	Op    string `json:"op"`
	Error string `json:"error"`
}

// JSONReconciliationData is the reconciliation document
type JSONReconciliationData struct {
	OperationID     string              `json:"operation_id"`
	LogPath         string              `json:"log_path"`
	DirPath         string              `json:"dir_path"`
	Ambiguity       string              `json:"ambiguity_policy"`
	Status          string              `json:"status"`
	Duration        string              `json:"duration"`
	DurationMs      int64               `json:"duration_ms"`
	Stats           JSONMatchStatsData  `json:"stats"`
	MatchedTotals   JSONTotalsData      `json:"matched_totals"`
	UnmatchedTotals JSONTotalsData      `json:"unmatched_totals"`
	Matched         []JSONFileData      `json:"matched"`
	Unmatched       []JSONFileData      `json:"unmatched"`
	Ambiguous       []JSONAmbiguousData `json:"ambiguous,omitempty"`
	Errors          []JSONErrorData     `json:"errors,omitempty"`
}

// JSONActionData represents one deletion action
type JSONActionData struct {
	Entry   string `json:"entry"`
	Line    int    `json:"line"`
	File    string `json:"file,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONDeletionStatsData represents deletion counters
type JSONDeletionStatsData struct {
	Processed      int   `json:"processed"`
	Deleted        int   `json:"deleted"`
	AlreadyDeleted int   `json:"already_deleted"`
	NotFound       int   `json:"not_found"`
	Ambiguous      int   `json:"ambiguous"`
	Errored        int   `json:"errored"`
	BytesFreed     int64 `json:"bytes_freed"`
}

// JSONDeletionData is the deletion document
type JSONDeletionData struct {
	OperationID    string                `json:"operation_id"`
	LogPath        string                `json:"log_path"`
	DirPath        string                `json:"dir_path"`
	Ambiguity      string                `json:"ambiguity_policy"`
	DryRun         bool                  `json:"dry_run"`
	Status         string                `json:"status"`
	Duration       string                `json:"duration"`
	InitialFiles   int                   `json:"initial_files"`
	RemainingFiles int                   `json:"remaining_files"`
	Stats          JSONDeletionStatsData `json:"stats"`
	Actions        []JSONActionData      `json:"actions"`
	Errors         []JSONErrorData       `json:"errors,omitempty"`
}

// JSONSectionsData is the section analysis document
type JSONSectionsData struct {
	OperationID string          `json:"operation_id"`
	DirPath     string          `json:"dir_path"`
	Divisor     float64         `json:"divisor"`
	Status      string          `json:"status"`
	Files       int             `json:"files"`
	Sections    int             `json:"sections"`
	Tokens      *JSONTokenStats `json:"tokens,omitempty"`
	Errors      []JSONErrorData `json:"errors,omitempty"`
}

// JSONTokenStats represents the token estimate distribution
type JSONTokenStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Reconciliation writes the reconciliation document
func (f *JSONFormatter) Reconciliation(w io.Writer, report *models.ReconciliationReport) error {
	s := report.Stats
	data := JSONReconciliationData{
		OperationID: report.OperationID,
		LogPath:     report.LogPath,
		DirPath:     report.DirPath,
		Ambiguity:   string(report.Ambiguity),
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONMatchStatsData{
			Entries:             s.Entries,
			Exact:               s.Exact,
			Truncated:           s.Truncated,
			Ambiguous:           s.Ambiguous,
			AmbiguousUnresolved: s.AmbiguousUnresolved,
			NotFound:            s.NotFound,
			Malformed:           s.Malformed,
			DirectoryFiles:      s.DirectoryFiles,
		},
		MatchedTotals:   totalsData(report.MatchedTotals),
		UnmatchedTotals: totalsData(report.UnmatchedTotals),
		Matched:         filesData(report.Matched),
		Unmatched:       filesData(report.Unmatched),
		Errors:          errorsData(report.Errors),
	}

	for _, r := range ambiguousResults(report.Results) {
		amb := JSONAmbiguousData{
			Entry:      r.Entry.Raw,
			Line:       r.Entry.Line,
			Candidates: make([]string, 0, len(r.Candidates)),
		}
		if r.Target != nil {
			amb.Picked = r.Target.Name
		}
		for _, c := range r.Candidates {
			amb.Candidates = append(amb.Candidates, c.Name)
		}
		data.Ambiguous = append(data.Ambiguous, amb)
	}

	return encode(w, data)
}

// Deletion writes the deletion document
func (f *JSONFormatter) Deletion(w io.Writer, report *models.DeletionReport) error {
	s := report.Stats
	data := JSONDeletionData{
		OperationID:    report.OperationID,
		LogPath:        report.LogPath,
		DirPath:        report.DirPath,
		Ambiguity:      string(report.Ambiguity),
		DryRun:         report.DryRun,
		Status:         string(report.Status),
		Duration:       report.Duration.Round(time.Millisecond).String(),
		InitialFiles:   report.InitialFiles,
		RemainingFiles: report.RemainingFiles,
		Stats: JSONDeletionStatsData{
			Processed:      s.Processed,
			Deleted:        s.Deleted,
			AlreadyDeleted: s.AlreadyDeleted,
			NotFound:       s.NotFound,
			Ambiguous:      s.Ambiguous,
			Errored:        s.Errored,
			BytesFreed:     s.BytesFreed,
		},
		Actions: make([]JSONActionData, 0, len(report.Actions)),
		Errors:  errorsData(report.Errors),
	}

	for _, a := range report.Actions {
		data.Actions = append(data.Actions, JSONActionData{
			Entry:   a.Entry.Raw,
			Line:    a.Entry.Line,
			File:    a.File,
			Outcome: string(a.Outcome),
			Reason:  a.Reason,
			Error:   a.Error,
		})
	}

	return encode(w, data)
}

// Sections writes the section analysis document
func (f *JSONFormatter) Sections(w io.Writer, report *models.SectionReport) error {
	s := report.Stats
	data := JSONSectionsData{
		OperationID: report.OperationID,
		DirPath:     report.DirPath,
		Divisor:     report.Divisor,
		Status:      string(report.Status),
		Files:       s.Files,
		Sections:    s.Sections,
		Errors:      errorsData(report.Errors),
	}
	if s.Sections > 0 {
		data.Tokens = &JSONTokenStats{
			Min:    s.Min,
			Max:    s.Max,
			Mean:   s.Mean,
			Median: s.Median,
			P90:    s.P90,
			P95:    s.P95,
		}
	}
	return encode(w, data)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func totalsData(t models.Totals) JSONTotalsData {
	return JSONTotalsData{
		Files:           t.Files,
		Bytes:           t.Bytes,
		Chars:           t.Chars,
		EstimatedTokens: t.EstimatedTokens,
		Errored:         t.Errored,
	}
}

func filesData(files []models.DirectoryFile) []JSONFileData {
	out := make([]JSONFileData, 0, len(files))
	for _, f := range files {
		out = append(out, JSONFileData{Name: f.Name, Size: f.Size})
	}
	return out
}

func errorsData(errs []models.FileError) []JSONErrorData {
	var out []JSONErrorData
	for _, e := range errs {
		out = append(out, JSONErrorData{File: e.Name, Entry: e.Entry, Op: e.Op, Error: e.Error})
	}
	return out
}

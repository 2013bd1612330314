package models

import (
	"time"
)

// ReconciliationReport represents the results of matching a log against a directory
type ReconciliationReport struct {
	// Operation details
	OperationID string
	LogPath     string
	DirPath     string
	Ambiguity   AmbiguityMode

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Per-entry resolutions, in log order
	Results []MatchResult

	// Partition of the directory; Matched and Unmatched are disjoint and
	// together cover every file of the snapshot
	Matched   []DirectoryFile
	Unmatched []DirectoryFile

	// Entry tallies (over entries, not files)
	Stats MatchStatistics

	// Size aggregates, filled by the aggregator
	MatchedTotals   Totals
	UnmatchedTotals Totals

	// Per-file read errors
	Errors []FileError

	Status RunStatus
}

// MatchStatistics holds entry-level counts
type MatchStatistics struct {
	Entries   int
	Exact     int
	Truncated int
	// Ambiguous counts every entry with several candidates, picked or not
	Ambiguous int
	// AmbiguousUnresolved counts ambiguous entries the policy refused to pick
	AmbiguousUnresolved int
	// NotFound includes Malformed entries
	NotFound  int
	Malformed int
	// DirectoryFiles is the size of the snapshot
	DirectoryFiles int
}

// Totals aggregates the size of a set of files
type Totals struct {
	Files int
	Bytes int64
	// Chars is the decoded character count
	Chars int64
	// EstimatedTokens is Chars divided by the configured divisor
	EstimatedTokens float64
	// Errored counts files whose content could not be read
	Errored int
}

// Add merges other into t
func (t *Totals) Add(other Totals) {
	t.Files += other.Files
	t.Bytes += other.Bytes
	t.Chars += other.Chars
	t.EstimatedTokens += other.EstimatedTokens
	t.Errored += other.Errored
}

// FileError represents a per-file failure that did not abort the run
type FileError struct {
	Name      string
	Entry     string
	Op        string
	Error     string
	Timestamp time.Time
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates every step completed
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some files failed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the run was aborted
	StatusFailed RunStatus = "failed"
)

// ExitCode returns the appropriate exit code for the status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	default:
		return 2
	}
}

// StatusFor returns partial when any errors were recorded
func StatusFor(errs []FileError) RunStatus {
	if len(errs) > 0 {
		return StatusPartial
	}
	return StatusSuccess
}

package models

import (
	"time"
)

// DeleteOutcome is what happened to a single log entry in delete mode
type DeleteOutcome string

const (
	// OutcomeDeleted means the resolved file was removed
	OutcomeDeleted DeleteOutcome = "deleted"
	// OutcomeWouldDelete means the file would be removed (dry-run)
	OutcomeWouldDelete DeleteOutcome = "would-delete"
	// OutcomeAlreadyDeleted means the resolved file was gone when re-checked
	OutcomeAlreadyDeleted DeleteOutcome = "already-deleted"
	// OutcomeNotFound means the entry resolved to nothing
	OutcomeNotFound DeleteOutcome = "not-found"
	// OutcomeAmbiguous means the entry had several candidates and none was picked
	OutcomeAmbiguous DeleteOutcome = "ambiguous"
	// OutcomeError means the check or removal failed
	OutcomeError DeleteOutcome = "error"
)

// DeleteAction is one line of the deletion action log
type DeleteAction struct {
	Entry   LogEntry
	File    string
	Outcome DeleteOutcome
	Reason  string
	Error   string
}

// DeleteStatistics holds deletion counters
type DeleteStatistics struct {
	Processed      int
	Deleted        int
	NotFound       int
	Ambiguous      int
	AlreadyDeleted int
	Errored        int
	BytesFreed     int64
}

// DeletionReport represents the results of a deletion run
type DeletionReport struct {
	OperationID string
	LogPath     string
	DirPath     string
	Ambiguity   AmbiguityMode
	DryRun      bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Actions []DeleteAction
	Stats   DeleteStatistics

	// InitialFiles is the snapshot size before deletion
	InitialFiles int
	// RemainingFiles is the directory size after deletion (same filter)
	RemainingFiles int

	Errors []FileError
	Status RunStatus
}

// SectionStatistics summarises token estimates across markdown sections
type SectionStatistics struct {
	Files    int
	Sections int
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	P90      float64
	P95      float64
}

// SectionReport is the result of a section-size analysis
type SectionReport struct {
	OperationID string
	DirPath     string
	Divisor     float64
	Duration    time.Duration
	Stats       SectionStatistics
	Errors      []FileError
	Status      RunStatus
}

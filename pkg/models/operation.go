package models

import (
	"time"
)

// AmbiguityMode names the policy used when a truncated pattern has
// more than one candidate
type AmbiguityMode string

const (
	// AmbiguityFirst picks the first candidate in directory enumeration order.
	// This is an approximation: the pick may not be the file that was uploaded.
	AmbiguityFirst AmbiguityMode = "first"
	// AmbiguityReject leaves ambiguous entries unresolved
	AmbiguityReject AmbiguityMode = "reject"
	// AmbiguityNewest picks the most recently modified candidate
	AmbiguityNewest AmbiguityMode = "newest"
)

// Operation describes one reconciliation run
type Operation struct {
	ID          string
	LogPath     string
	DirPath     string
	HeaderLabel string
	Extensions  []string
	Exclude     []string
	Ambiguity   AmbiguityMode
	Divisor     float64
	DryRun      bool
	CreatedAt   time.Time
}

// Validate checks if the operation configuration is valid
func (op *Operation) Validate() error {
	if op.LogPath == "" {
		return &ValidationError{Field: "LogPath", Message: "log file path is required"}
	}
	if op.DirPath == "" {
		return &ValidationError{Field: "DirPath", Message: "directory path is required"}
	}
	switch op.Ambiguity {
	case AmbiguityFirst, AmbiguityReject, AmbiguityNewest:
	default:
		return &ValidationError{Field: "Ambiguity", Message: "must be 'first', 'reject' or 'newest'"}
	}
	if op.Divisor <= 0 {
		return &ValidationError{Field: "Divisor", Message: "token divisor must be positive"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

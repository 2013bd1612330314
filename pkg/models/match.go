package models

// MatchKind classifies how a log entry resolved
type MatchKind string

const (
	// MatchExact indicates the entry equals a filename
	MatchExact MatchKind = "exact"
	// MatchTruncated indicates a truncated pattern with exactly one candidate
	MatchTruncated MatchKind = "truncated"
	// MatchAmbiguous indicates a truncated pattern with several candidates
	MatchAmbiguous MatchKind = "ambiguous"
	// MatchNotFound indicates nothing matched, or the pattern was malformed
	MatchNotFound MatchKind = "not-found"
)

// MatchResult is the resolution of a single log entry
type MatchResult struct {
	Entry LogEntry

	Kind MatchKind

	// Target is the resolved file. For ambiguous entries it is the file the
	// ambiguity policy picked, or nil when the policy refused to pick.
	Target *DirectoryFile

	// Candidates lists every matching file for ambiguous entries,
	// in directory enumeration order
	Candidates []DirectoryFile

	// Malformed is set when the entry looked like a pattern but was rejected
	Malformed bool

	// Reason explains the outcome
	Reason string
}

// Resolved reports whether the entry counts toward the matched set
func (r MatchResult) Resolved() bool {
	return r.Target != nil
}

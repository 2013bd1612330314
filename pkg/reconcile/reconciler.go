package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
)

// Reconciler maps log entries to files of a directory snapshot
type Reconciler struct {
	policy AmbiguityPolicy
	logger logging.Logger
}

// New creates a reconciler. A nil logger discards output.
func New(policy AmbiguityPolicy, logger logging.Logger) *Reconciler {
	return &Reconciler{
		policy: policy,
		logger: logging.OrNull(logger),
	}
}

// Policy returns the ambiguity policy in use
func (r *Reconciler) Policy() AmbiguityPolicy {
	return r.policy
}

// Resolve matches a single entry against dir.
// Exact filename equality wins over pattern interpretation, even when
// the entry contains a separator.
func (r *Reconciler) Resolve(ctx context.Context, dir *models.Directory, entry models.LogEntry) models.MatchResult {
	result := models.MatchResult{Entry: entry}

	// Stage 1: exact name
	if file, ok := dir.Lookup(entry.Raw); ok {
		result.Kind = models.MatchExact
		result.Target = &file
		result.Reason = "exact filename"
		r.logger.Debug(ctx, "entry resolved", logging.Fields{"entry": entry.Raw, "file": file.Name, "kind": result.Kind})
		return result
	}

	// Stage 2: truncated pattern
	pattern, err := ParsePattern(entry.Raw)
	if err != nil {
		result.Kind = models.MatchNotFound
		if errors.Is(err, ErrMalformedPattern) {
			result.Malformed = true
			result.Reason = err.Error()
			r.logger.Warn(ctx, "malformed entry", logging.Fields{"entry": entry.Raw, "line": entry.Line})
		} else {
			result.Reason = "no file with this name"
			r.logger.Debug(ctx, "entry not found", logging.Fields{"entry": entry.Raw})
		}
		return result
	}

	var candidates []models.DirectoryFile
	for _, file := range dir.Files() {
		if pattern.Matches(file.Name) {
			candidates = append(candidates, file)
		}
	}

	switch len(candidates) {
	case 0:
		result.Kind = models.MatchNotFound
		result.Reason = fmt.Sprintf("no file matches %s", pattern)
		r.logger.Debug(ctx, "entry not found", logging.Fields{"entry": entry.Raw})

	case 1:
		result.Kind = models.MatchTruncated
		result.Target = &candidates[0]
		result.Reason = "unique truncated match"
		r.logger.Debug(ctx, "entry resolved", logging.Fields{"entry": entry.Raw, "file": candidates[0].Name, "kind": result.Kind})

	default:
		result.Kind = models.MatchAmbiguous
		result.Candidates = candidates
		if i, ok := r.policy.Choose(candidates); ok && i >= 0 && i < len(candidates) {
			picked := candidates[i]
			result.Target = &picked
			result.Reason = fmt.Sprintf("%d candidates, picked %s by policy %s", len(candidates), picked.Name, r.policy.Name())
		} else {
			result.Reason = fmt.Sprintf("%d candidates, left unresolved by policy %s", len(candidates), r.policy.Name())
		}
		r.logger.Warn(ctx, "ambiguous entry", logging.Fields{
			"entry":      entry.Raw,
			"candidates": len(candidates),
			"policy":     r.policy.Name(),
			"resolved":   result.Target != nil,
		})
	}

	return result
}

// Reconcile resolves every entry and partitions dir into matched and
// unmatched files. It has no side effects on the filesystem.
func (r *Reconciler) Reconcile(ctx context.Context, dir *models.Directory, entries []models.LogEntry) *models.ReconciliationReport {
	report := &models.ReconciliationReport{
		DirPath:   dir.Root,
		Ambiguity: r.policy.Name(),
		StartTime: time.Now(),
		Results:   make([]models.MatchResult, 0, len(entries)),
	}

	matched := make(map[string]struct{})

	for _, entry := range entries {
		result := r.Resolve(ctx, dir, entry)
		report.Results = append(report.Results, result)

		switch result.Kind {
		case models.MatchExact:
			report.Stats.Exact++
		case models.MatchTruncated:
			report.Stats.Truncated++
		case models.MatchAmbiguous:
			report.Stats.Ambiguous++
			if !result.Resolved() {
				report.Stats.AmbiguousUnresolved++
			}
		case models.MatchNotFound:
			report.Stats.NotFound++
			if result.Malformed {
				report.Stats.Malformed++
			}
		}

		if result.Resolved() {
			matched[result.Target.Name] = struct{}{}
		}
	}

	for _, file := range dir.Files() {
		if _, ok := matched[file.Name]; ok {
			report.Matched = append(report.Matched, file)
		} else {
			report.Unmatched = append(report.Unmatched, file)
		}
	}

	report.Stats.Entries = len(entries)
	report.Stats.DirectoryFiles = dir.Len()
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = models.StatusSuccess

	return report
}

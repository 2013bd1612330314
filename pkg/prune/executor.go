// Package prune removes directory files that the upload log accounts for.
package prune

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/docrecon/pkg/logging"
	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/output"
	"github.com/sdejongh/docrecon/pkg/reconcile"
	"github.com/sdejongh/docrecon/pkg/storage"
)

// Executor deletes the file each log entry resolves to.
// Deletion is idempotent: a file already gone when its turn comes is
// reported as already-deleted, never as an error.
type Executor struct {
	backend    storage.Backend
	reconciler *reconcile.Reconciler
	dryRun     bool
	logger     logging.Logger

	// NewProgress is called once per Run with the number of entries.
	// When nil, no progress is reported.
	NewProgress func(total int, label string) output.Progress
}

// New creates a deletion executor
func New(backend storage.Backend, reconciler *reconcile.Reconciler, dryRun bool, logger logging.Logger) *Executor {
	return &Executor{
		backend:    backend,
		reconciler: reconciler,
		dryRun:     dryRun,
		logger:     logging.OrNull(logger),
	}
}

// Run snapshots the directory once, then resolves and deletes entry by
// entry. Only a failed snapshot aborts the run; per-file failures are
// recorded in the report.
func (e *Executor) Run(ctx context.Context, entries []models.LogEntry) (*models.DeletionReport, error) {
	report := &models.DeletionReport{
		DirPath:   e.backend.Root(),
		Ambiguity: e.reconciler.Policy().Name(),
		DryRun:    e.dryRun,
		StartTime: time.Now(),
		Actions:   make([]models.DeleteAction, 0, len(entries)),
	}

	dir, err := storage.Snapshot(ctx, e.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	report.InitialFiles = dir.Len()

	e.logger.Info(ctx, "Starting deletion", logging.Fields{
		"directory": dir.Root,
		"files":     dir.Len(),
		"entries":   len(entries),
		"dry_run":   e.dryRun,
	})

	// Dry runs never touch the disk, so files "removed" earlier in the run
	// are tracked here to keep repeated entries consistent.
	removed := make(map[string]bool)

	progress := e.progress(len(entries))
	for _, entry := range entries {
		action := e.process(ctx, dir, entry, removed, report)
		report.Actions = append(report.Actions, action)
		report.Stats.Processed++
		progress.Increment()
	}
	progress.Finish()

	report.RemainingFiles = e.remaining(ctx, report)
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = models.StatusFor(report.Errors)

	e.logger.Info(ctx, "Deletion completed", logging.Fields{
		"deleted":         report.Stats.Deleted,
		"already_deleted": report.Stats.AlreadyDeleted,
		"not_found":       report.Stats.NotFound,
		"ambiguous":       report.Stats.Ambiguous,
		"errors":          report.Stats.Errored,
		"remaining":       report.RemainingFiles,
	})

	return report, nil
}

func (e *Executor) process(ctx context.Context, dir *models.Directory, entry models.LogEntry, removed map[string]bool, report *models.DeletionReport) models.DeleteAction {
	action := models.DeleteAction{Entry: entry}

	result := e.reconciler.Resolve(ctx, dir, entry)
	if !result.Resolved() {
		if result.Kind == models.MatchAmbiguous {
			action.Outcome = models.OutcomeAmbiguous
			report.Stats.Ambiguous++
		} else {
			action.Outcome = models.OutcomeNotFound
			report.Stats.NotFound++
		}
		action.Reason = result.Reason
		return action
	}

	target := *result.Target
	action.File = target.Name
	if result.Kind == models.MatchAmbiguous {
		action.Reason = result.Reason
	}

	if removed[target.Name] {
		action.Outcome = models.OutcomeAlreadyDeleted
		report.Stats.AlreadyDeleted++
		return action
	}

	// The snapshot may be stale: another entry of this run can have
	// removed the same file already.
	exists, err := e.backend.Exists(ctx, target.Name)
	if err != nil {
		return e.fail(ctx, action, "exists", err, report)
	}
	if !exists {
		e.logger.Debug(ctx, "File already deleted", logging.Fields{"file": target.Name, "entry": entry.Raw})
		action.Outcome = models.OutcomeAlreadyDeleted
		report.Stats.AlreadyDeleted++
		return action
	}

	if e.dryRun {
		e.logger.Info(ctx, "Would delete file", logging.Fields{"file": target.Name, "entry": entry.Raw})
		action.Outcome = models.OutcomeWouldDelete
	} else {
		if err := e.backend.Delete(ctx, target.Name); err != nil {
			return e.fail(ctx, action, "delete", err, report)
		}
		e.logger.Info(ctx, "Deleted file", logging.Fields{"file": target.Name, "entry": entry.Raw})
		action.Outcome = models.OutcomeDeleted
	}

	removed[target.Name] = true
	report.Stats.Deleted++
	report.Stats.BytesFreed += target.Size
	return action
}

func (e *Executor) fail(ctx context.Context, action models.DeleteAction, op string, err error, report *models.DeletionReport) models.DeleteAction {
	e.logger.Error(ctx, "Failed to delete file", err, logging.Fields{
		"file":   action.File,
		"entry":  action.Entry.Raw,
		"action": op,
	})

	action.Outcome = models.OutcomeError
	action.Error = err.Error()
	report.Stats.Errored++
	report.Errors = append(report.Errors, models.FileError{
		Name:      action.File,
		Entry:     action.Entry.Raw,
		Op:        op,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
	return action
}

// remaining counts the files left in the directory after the run
func (e *Executor) remaining(ctx context.Context, report *models.DeletionReport) int {
	if e.dryRun {
		return report.InitialFiles - report.Stats.Deleted
	}

	files, err := e.backend.List(ctx)
	if err != nil {
		e.logger.Error(ctx, "Failed to list directory after deletion", err, logging.Fields{"action": "list"})
		report.Errors = append(report.Errors, models.FileError{
			Name:      report.DirPath,
			Op:        "list",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return report.InitialFiles - report.Stats.Deleted
	}
	return len(files)
}

func (e *Executor) progress(total int) output.Progress {
	if e.NewProgress == nil {
		return output.NewProgress(nil, 0, "", false)
	}
	return e.NewProgress(total, "deleting")
}

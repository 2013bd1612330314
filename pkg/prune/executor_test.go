package prune

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/reconcile"
	"github.com/sdejongh/docrecon/pkg/storage"
)

// failingBackend refuses to delete one file
type failingBackend struct {
	*storage.Local
	refuse string
}

func (b *failingBackend) Delete(ctx context.Context, name string) error {
	if name == b.refuse {
		return errors.New("permission denied")
	}
	return b.Local.Delete(ctx, name)
}

func setupDir(t *testing.T, names ...string) *storage.Local {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "prune-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("content of "+name), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backend, err := storage.NewLocal(tempDir, storage.Filter{Extensions: []string{".md"}})
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	return backend
}

func entries(raw ...string) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(raw))
	for i, r := range raw {
		out = append(out, models.LogEntry{Line: i + 1, Raw: r})
	}
	return out
}

func newExecutor(backend storage.Backend, mode models.AmbiguityMode, dryRun bool) *Executor {
	policy, _ := reconcile.PolicyFor(mode)
	return New(backend, reconcile.New(policy, nil), dryRun, nil)
}

func outcomes(report *models.DeletionReport) []models.DeleteOutcome {
	out := make([]models.DeleteOutcome, 0, len(report.Actions))
	for _, a := range report.Actions {
		out = append(out, a.Outcome)
	}
	return out
}

func exists(t *testing.T, backend *storage.Local, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(backend.Root(), name))
	return err == nil
}

func TestRun(t *testing.T) {
	backend := setupDir(t, "karar_123_full.md", "karar_456_full.md", "blog_1.md", "keep.md")
	exec := newExecutor(backend, models.AmbiguityReject, false)

	report, err := exec.Run(context.Background(), entries(
		"karar_123_full.md",
		"blog_...md",
		"karar_...md",
		"missing.md",
		"a...b...md",
	))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []models.DeleteOutcome{
		models.OutcomeDeleted,
		models.OutcomeDeleted,
		models.OutcomeAmbiguous,
		models.OutcomeNotFound,
		models.OutcomeNotFound,
	}
	got := outcomes(report)
	if len(got) != len(want) {
		t.Fatalf("outcomes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %s, want %s", i, got[i], want[i])
		}
	}

	if report.Stats.Processed != 5 || report.Stats.Deleted != 2 || report.Stats.Ambiguous != 1 || report.Stats.NotFound != 2 {
		t.Errorf("Stats = %+v", report.Stats)
	}
	if report.InitialFiles != 4 || report.RemainingFiles != 2 {
		t.Errorf("InitialFiles/RemainingFiles = %d/%d, want 4/2", report.InitialFiles, report.RemainingFiles)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}

	if exists(t, backend, "karar_123_full.md") || exists(t, backend, "blog_1.md") {
		t.Error("resolved files should be removed")
	}
	if !exists(t, backend, "karar_456_full.md") || !exists(t, backend, "keep.md") {
		t.Error("unresolved files should be kept")
	}
}

func TestRunIdempotent(t *testing.T) {
	backend := setupDir(t, "a.md", "b.md", "c.md")
	exec := newExecutor(backend, models.AmbiguityReject, false)
	log := entries("a.md", "b...md")

	first, err := exec.Run(context.Background(), log)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Stats.Deleted != 2 {
		t.Fatalf("first run deleted %d, want 2", first.Stats.Deleted)
	}

	second, err := exec.Run(context.Background(), log)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Stats.Deleted != 0 {
		t.Errorf("second run deleted %d, want 0", second.Stats.Deleted)
	}
	if second.Stats.Errored != 0 || second.Status != models.StatusSuccess {
		t.Errorf("second run should not fail: %+v", second.Stats)
	}
	if second.RemainingFiles != 1 {
		t.Errorf("RemainingFiles = %d, want 1", second.RemainingFiles)
	}
}

func TestRunDoubleMatch(t *testing.T) {
	backend := setupDir(t, "karar_123_full.md", "other.md")
	exec := newExecutor(backend, models.AmbiguityReject, false)

	// Both entries resolve to the same file.
	report, err := exec.Run(context.Background(), entries("karar_123_full.md", "karar_1...full.md"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := outcomes(report)
	if got[0] != models.OutcomeDeleted || got[1] != models.OutcomeAlreadyDeleted {
		t.Errorf("outcomes = %v", got)
	}
	if report.Stats.Deleted != 1 || report.Stats.AlreadyDeleted != 1 || report.Stats.Errored != 0 {
		t.Errorf("Stats = %+v", report.Stats)
	}
}

func TestRunDryRun(t *testing.T) {
	backend := setupDir(t, "a.md", "b.md")
	exec := newExecutor(backend, models.AmbiguityReject, true)

	report, err := exec.Run(context.Background(), entries("a.md", "a.md", "b.md"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := outcomes(report)
	want := []models.DeleteOutcome{models.OutcomeWouldDelete, models.OutcomeAlreadyDeleted, models.OutcomeWouldDelete}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %s, want %s", i, got[i], want[i])
		}
	}
	if !report.DryRun || report.Stats.Deleted != 2 || report.RemainingFiles != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Stats.BytesFreed != int64(len("content of a.md")+len("content of b.md")) {
		t.Errorf("BytesFreed = %d", report.Stats.BytesFreed)
	}
	if !exists(t, backend, "a.md") || !exists(t, backend, "b.md") {
		t.Error("dry run must not remove files")
	}
}

func TestRunFirstPolicyDeletesPick(t *testing.T) {
	backend := setupDir(t, "karar_1.md")
	if err := os.WriteFile(filepath.Join(backend.Root(), "karar_2.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := newExecutor(backend, models.AmbiguityFirst, false)
	report, err := exec.Run(context.Background(), entries("karar_...md"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.Deleted != 1 || report.Stats.Ambiguous != 0 {
		t.Errorf("Stats = %+v", report.Stats)
	}
	if report.Actions[0].Reason == "" {
		t.Error("an ambiguous pick should carry its reason")
	}
	if report.RemainingFiles != 1 {
		t.Errorf("RemainingFiles = %d, want 1", report.RemainingFiles)
	}
}

func TestRunDeleteError(t *testing.T) {
	local := setupDir(t, "locked.md", "free.md")
	backend := &failingBackend{Local: local, refuse: "locked.md"}
	exec := newExecutor(backend, models.AmbiguityReject, false)

	report, err := exec.Run(context.Background(), entries("locked.md", "free.md"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Actions[0].Outcome != models.OutcomeError || report.Actions[0].Error == "" {
		t.Errorf("action 0 = %+v", report.Actions[0])
	}
	if report.Actions[1].Outcome != models.OutcomeDeleted {
		t.Errorf("run should continue after a failure, action 1 = %+v", report.Actions[1])
	}
	if report.Stats.Errored != 1 || len(report.Errors) != 1 {
		t.Errorf("Stats = %+v, Errors = %+v", report.Stats, report.Errors)
	}
	if report.Errors[0].Op != "delete" || report.Errors[0].Entry != "locked.md" {
		t.Errorf("Errors[0] = %+v", report.Errors[0])
	}
	if report.Status != models.StatusPartial {
		t.Errorf("Status = %s, want partial", report.Status)
	}
	if report.RemainingFiles != 1 {
		t.Errorf("RemainingFiles = %d, want 1", report.RemainingFiles)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	backend := setupDir(t)
	os.RemoveAll(backend.Root())

	exec := newExecutor(backend, models.AmbiguityReject, false)
	if _, err := exec.Run(context.Background(), entries("a.md")); err == nil {
		t.Error("Run() should fail when the directory cannot be listed")
	}
}

// staleBackend lists a file that is no longer on disk
type staleBackend struct {
	*storage.Local
}

func (b *staleBackend) List(ctx context.Context) ([]models.DirectoryFile, error) {
	files, err := b.Local.List(ctx)
	if err != nil {
		return nil, err
	}
	return append(files, models.DirectoryFile{Name: "ghost.md", Size: 10}), nil
}

func TestRunRechecksExistence(t *testing.T) {
	backend := &staleBackend{Local: setupDir(t, "real.md")}
	exec := newExecutor(backend, models.AmbiguityReject, false)

	report, err := exec.Run(context.Background(), entries("ghost.md", "real.md"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Actions[0].Outcome != models.OutcomeAlreadyDeleted {
		t.Errorf("stale entry outcome = %s, want already-deleted", report.Actions[0].Outcome)
	}
	if report.Actions[1].Outcome != models.OutcomeDeleted {
		t.Errorf("real entry outcome = %s, want deleted", report.Actions[1].Outcome)
	}
	if report.Stats.Errored != 0 {
		t.Errorf("Errored = %d, want 0", report.Stats.Errored)
	}
}

func TestRunAmbiguousNarrowsAcrossRuns(t *testing.T) {
	backend := setupDir(t, "karar_123_full.md", "karar_456_full.md")
	exec := newExecutor(backend, models.AmbiguityReject, false)
	log := entries("karar_123_full.md", "karar_...md")

	first, err := exec.Run(context.Background(), log)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Stats.Deleted != 1 || first.Stats.Ambiguous != 1 {
		t.Fatalf("first run Stats = %+v", first.Stats)
	}

	// With one sibling gone the pattern is no longer ambiguous.
	second, err := exec.Run(context.Background(), log)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Actions[1].Outcome != models.OutcomeDeleted || second.Actions[1].File != "karar_456_full.md" {
		t.Errorf("second run action = %+v", second.Actions[1])
	}

	third, err := exec.Run(context.Background(), log)
	if err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if third.Stats.Deleted != 0 {
		t.Errorf("third run deleted %d, want 0", third.Stats.Deleted)
	}
}

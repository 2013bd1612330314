package reconcile

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/sdejongh/docrecon/pkg/models"
)

func newDir(names ...string) *models.Directory {
	files := make([]models.DirectoryFile, len(names))
	for i, n := range names {
		files[i] = models.DirectoryFile{Name: n, Size: int64(len(n))}
	}
	return models.NewDirectory("/data", files)
}

func newEntries(raws ...string) []models.LogEntry {
	entries := make([]models.LogEntry, len(raws))
	for i, r := range raws {
		entries[i] = models.LogEntry{Line: i + 1, Raw: r}
	}
	return entries
}

func names(files []models.DirectoryFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func equalNames(t *testing.T, label string, got []models.DirectoryFile, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Errorf("%s = %v, want %v", label, g, want)
		return
	}
	for i := range g {
		if g[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, g, want)
			return
		}
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	dir := newDir("karar_123_full.md", "karar_456_full.md", "blog...post.md", "blog_1.md")
	r := New(FirstCandidate{}, nil)

	tests := []struct {
		name      string
		entry     string
		wantKind  models.MatchKind
		wantFile  string
		malformed bool
	}{
		{"Exact", "karar_123_full.md", models.MatchExact, "karar_123_full.md", false},
		{"ExactBeatsPattern", "blog...post.md", models.MatchExact, "blog...post.md", false},
		{"UniqueTruncated", "karar_4...md", models.MatchTruncated, "karar_456_full.md", false},
		{"Ambiguous", "karar_...md", models.MatchAmbiguous, "karar_123_full.md", false},
		{"NoCandidates", "karar_7...md", models.MatchNotFound, "", false},
		{"PlainMissing", "missing.md", models.MatchNotFound, "", false},
		{"CaseSensitive", "KARAR_123_full.md", models.MatchNotFound, "", false},
		{"TwoSeparators", "report...summary...md", models.MatchNotFound, "", true},
		{"EmptySuffix", "karar...", models.MatchNotFound, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(ctx, dir, models.LogEntry{Line: 1, Raw: tt.entry})
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %s, want %s (%s)", got.Kind, tt.wantKind, got.Reason)
			}
			if got.Malformed != tt.malformed {
				t.Errorf("Malformed = %v, want %v", got.Malformed, tt.malformed)
			}
			if tt.wantFile == "" {
				if got.Resolved() {
					t.Errorf("Target = %s, want none", got.Target.Name)
				}
				return
			}
			if !got.Resolved() || got.Target.Name != tt.wantFile {
				t.Errorf("Target = %v, want %s", got.Target, tt.wantFile)
			}
		})
	}
}

func TestResolveAmbiguousCandidates(t *testing.T) {
	dir := newDir("x_2.md", "x_1.md", "y.md")
	got := New(RejectAmbiguous{}, nil).Resolve(context.Background(), dir, models.LogEntry{Raw: "x_...md"})

	if got.Kind != models.MatchAmbiguous {
		t.Fatalf("Kind = %s, want ambiguous", got.Kind)
	}
	if got.Resolved() {
		t.Error("reject policy should leave the entry unresolved")
	}
	equalNames(t, "Candidates", got.Candidates, "x_2.md", "x_1.md")
}

// The documented example: "karar_7...md" has no file starting with "karar_7",
// so it is not found rather than ambiguous.
func TestReconcileDocumentedExample(t *testing.T) {
	dir := newDir("karar_123_full.md", "karar_456_full.md")
	report := New(FirstCandidate{}, nil).Reconcile(context.Background(), dir, newEntries("karar_123_full.md", "karar_7...md"))

	equalNames(t, "Matched", report.Matched, "karar_123_full.md")
	equalNames(t, "Unmatched", report.Unmatched, "karar_456_full.md")
	if report.Stats.NotFound != 1 {
		t.Errorf("NotFound = %d, want 1", report.Stats.NotFound)
	}
	if report.Stats.Ambiguous != 0 {
		t.Errorf("Ambiguous = %d, want 0", report.Stats.Ambiguous)
	}
}

// Pins the tie-break: the first candidate in enumeration order wins,
// not the alphabetically first one.
func TestReconcileAmbiguityTieBreak(t *testing.T) {
	ctx := context.Background()

	t.Run("PickAlreadyMatched", func(t *testing.T) {
		dir := newDir("karar_123_full.md", "karar_456_full.md")
		report := New(FirstCandidate{}, nil).Reconcile(ctx, dir, newEntries("karar_123_full.md", "karar_...md"))

		if report.Stats.Ambiguous != 1 {
			t.Errorf("Ambiguous = %d, want 1", report.Stats.Ambiguous)
		}
		if report.Stats.NotFound != 0 {
			t.Errorf("NotFound = %d, want 0", report.Stats.NotFound)
		}
		equalNames(t, "Matched", report.Matched, "karar_123_full.md")
		equalNames(t, "Unmatched", report.Unmatched, "karar_456_full.md")
	})

	t.Run("PickOtherFile", func(t *testing.T) {
		dir := newDir("karar_456_full.md", "karar_123_full.md")
		report := New(FirstCandidate{}, nil).Reconcile(ctx, dir, newEntries("karar_123_full.md", "karar_...md"))

		if report.Stats.Ambiguous != 1 {
			t.Errorf("Ambiguous = %d, want 1", report.Stats.Ambiguous)
		}
		equalNames(t, "Matched", report.Matched, "karar_456_full.md", "karar_123_full.md")
		if len(report.Unmatched) != 0 {
			t.Errorf("Unmatched = %v, want empty", names(report.Unmatched))
		}
	})

	t.Run("RejectKeepsAmbiguousVisible", func(t *testing.T) {
		dir := newDir("karar_456_full.md", "karar_123_full.md")
		report := New(RejectAmbiguous{}, nil).Reconcile(ctx, dir, newEntries("karar_...md"))

		if report.Stats.Ambiguous != 1 || report.Stats.AmbiguousUnresolved != 1 {
			t.Errorf("Ambiguous = %d, AmbiguousUnresolved = %d, want 1, 1", report.Stats.Ambiguous, report.Stats.AmbiguousUnresolved)
		}
		if len(report.Matched) != 0 {
			t.Errorf("Matched = %v, want empty", names(report.Matched))
		}
		if report.Ambiguity != models.AmbiguityReject {
			t.Errorf("Ambiguity = %s, want reject", report.Ambiguity)
		}
	})
}

func TestReconcileMalformedDoesNotAbort(t *testing.T) {
	dir := newDir("a.md", "b.md")
	report := New(FirstCandidate{}, nil).Reconcile(context.Background(), dir, newEntries("report...summary...md", "b.md"))

	if report.Stats.NotFound != 1 || report.Stats.Malformed != 1 {
		t.Errorf("NotFound = %d, Malformed = %d, want 1, 1", report.Stats.NotFound, report.Stats.Malformed)
	}
	equalNames(t, "Matched", report.Matched, "b.md")
	if len(report.Results) != 2 {
		t.Errorf("Results = %d, want 2", len(report.Results))
	}
}

func TestReconcileDuplicateEntries(t *testing.T) {
	dir := newDir("a.md", "b.md")
	report := New(FirstCandidate{}, nil).Reconcile(context.Background(), dir, newEntries("a.md", "a.md", "a...md"))

	if report.Stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", report.Stats.Entries)
	}
	if report.Stats.Exact != 2 || report.Stats.Truncated != 1 {
		t.Errorf("Exact = %d, Truncated = %d, want 2, 1", report.Stats.Exact, report.Stats.Truncated)
	}
	equalNames(t, "Matched", report.Matched, "a.md")
	equalNames(t, "Unmatched", report.Unmatched, "b.md")
}

func TestReconcileEmptyInputs(t *testing.T) {
	ctx := context.Background()

	report := New(FirstCandidate{}, nil).Reconcile(ctx, newDir(), newEntries("a.md"))
	if report.Stats.NotFound != 1 || len(report.Matched) != 0 || len(report.Unmatched) != 0 {
		t.Errorf("empty directory: %+v", report.Stats)
	}

	report = New(FirstCandidate{}, nil).Reconcile(ctx, newDir("a.md"), nil)
	equalNames(t, "Unmatched", report.Unmatched, "a.md")
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
}

// Matched and Unmatched partition the directory for arbitrary logs.
func TestReconcilePartitionInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	policies := []AmbiguityPolicy{FirstCandidate{}, RejectAmbiguous{}, NewestCandidate{}}
	alphabet := []string{"a", "b", "ab", "_", ".", "..."}

	randomString := func(n int) string {
		s := ""
		for i := 0; i < n; i++ {
			s += alphabet[rng.Intn(len(alphabet))]
		}
		return s
	}

	for round := 0; round < 200; round++ {
		var dirNames []string
		nFiles := rng.Intn(8)
		for i := 0; i < nFiles; i++ {
			dirNames = append(dirNames, randomString(1+rng.Intn(5))+".md")
		}
		dir := newDir(dirNames...)

		var raws []string
		nEntries := rng.Intn(10)
		for i := 0; i < nEntries; i++ {
			if len(dirNames) > 0 && rng.Intn(3) == 0 {
				raws = append(raws, dirNames[rng.Intn(len(dirNames))])
				continue
			}
			raws = append(raws, randomString(1+rng.Intn(6)))
		}

		policy := policies[round%len(policies)]
		report := New(policy, nil).Reconcile(context.Background(), dir, newEntries(raws...))

		seen := make(map[string]string)
		for _, f := range report.Matched {
			seen[f.Name] = "matched"
		}
		for _, f := range report.Unmatched {
			if seen[f.Name] == "matched" {
				t.Fatalf("round %d: %s in both sets", round, f.Name)
			}
			seen[f.Name] = "unmatched"
		}
		if len(seen) != dir.Len() || len(report.Matched)+len(report.Unmatched) != dir.Len() {
			t.Fatalf("round %d: partition covers %d of %d files", round, len(seen), dir.Len())
		}

		resolved := 0
		for _, res := range report.Results {
			if res.Resolved() {
				resolved++
				if seen[res.Target.Name] != "matched" {
					t.Fatalf("round %d: resolved target %s not in matched set", round, res.Target.Name)
				}
			}
		}
		counted := report.Stats.Exact + report.Stats.Truncated + report.Stats.Ambiguous + report.Stats.NotFound
		if counted != len(raws) {
			t.Fatalf("round %d: tallies %d != entries %d", round, counted, len(raws))
		}
		if resolved != report.Stats.Exact+report.Stats.Truncated+report.Stats.Ambiguous-report.Stats.AmbiguousUnresolved {
			t.Fatalf("round %d: resolved count mismatch: %s", round, fmt.Sprint(report.Stats))
		}
	}
}

package models

import (
	"testing"
	"time"
)

// ============== Directory Tests ==============

func TestNewDirectory(t *testing.T) {
	files := []DirectoryFile{
		{Name: "b.md", Size: 10},
		{Name: "a.md", Size: 20},
		{Name: "b.md", Size: 99},
	}

	dir := NewDirectory("/data", files)

	if dir.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dir.Len())
	}

	got := dir.Files()
	if got[0].Name != "b.md" || got[1].Name != "a.md" {
		t.Errorf("Files() order = [%s %s], want enumeration order [b.md a.md]", got[0].Name, got[1].Name)
	}

	f, ok := dir.Lookup("b.md")
	if !ok {
		t.Fatal("Lookup(b.md) not found")
	}
	if f.Size != 10 {
		t.Errorf("Lookup(b.md).Size = %d, want first occurrence 10", f.Size)
	}

	if _, ok := dir.Lookup("B.md"); ok {
		t.Error("Lookup should be case-sensitive")
	}
}

func TestDirectoryFilesIsCopy(t *testing.T) {
	dir := NewDirectory("", []DirectoryFile{{Name: "a.md"}})
	files := dir.Files()
	files[0].Name = "changed"

	if _, ok := dir.Lookup("a.md"); !ok {
		t.Error("mutating Files() result changed the snapshot")
	}
	if dir.Files()[0].Name != "a.md" {
		t.Error("snapshot order entry was mutated")
	}
}

// ============== MatchResult Tests ==============

func TestMatchResultResolved(t *testing.T) {
	file := DirectoryFile{Name: "a.md"}

	if (MatchResult{Kind: MatchExact, Target: &file}).Resolved() != true {
		t.Error("exact match with target should be resolved")
	}
	if (MatchResult{Kind: MatchAmbiguous, Candidates: []DirectoryFile{file, file}}).Resolved() {
		t.Error("ambiguous match without pick should not be resolved")
	}
	if (MatchResult{Kind: MatchNotFound}).Resolved() {
		t.Error("not-found should not be resolved")
	}
}

// ============== Totals Tests ==============

func TestTotalsAdd(t *testing.T) {
	total := Totals{Files: 1, Bytes: 100, Chars: 90, EstimatedTokens: 22.5}
	total.Add(Totals{Files: 2, Bytes: 50, Chars: 40, EstimatedTokens: 10, Errored: 1})

	if total.Files != 3 || total.Bytes != 150 || total.Chars != 130 {
		t.Errorf("Add() = %+v", total)
	}
	if total.EstimatedTokens != 32.5 {
		t.Errorf("EstimatedTokens = %v, want 32.5", total.EstimatedTokens)
	}
	if total.Errored != 1 {
		t.Errorf("Errored = %d, want 1", total.Errored)
	}
}

// ============== Operation Tests ==============

func TestOperationValidate(t *testing.T) {
	valid := func() *Operation {
		return &Operation{
			LogPath:   "/data/durum.txt",
			DirPath:   "/data",
			Ambiguity: AmbiguityFirst,
			Divisor:   4,
			CreatedAt: time.Now(),
		}
	}

	t.Run("ValidOperation", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(op *Operation)
		field  string
	}{
		{"EmptyLogPath", func(op *Operation) { op.LogPath = "" }, "LogPath"},
		{"EmptyDirPath", func(op *Operation) { op.DirPath = "" }, "DirPath"},
		{"UnknownAmbiguity", func(op *Operation) { op.Ambiguity = "random" }, "Ambiguity"},
		{"ZeroDivisor", func(op *Operation) { op.Divisor = 0 }, "Divisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := valid()
			tt.mutate(op)

			err := op.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "Divisor", Message: "token divisor must be positive"}
	if err.Error() != "Divisor: token divisor must be positive" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// ============== Status Tests ==============

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{RunStatus("unknown"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	if StatusFor(nil) != StatusSuccess {
		t.Error("no errors should be success")
	}
	if StatusFor([]FileError{{Name: "a.md", Op: "read"}}) != StatusPartial {
		t.Error("errors should be partial")
	}
}

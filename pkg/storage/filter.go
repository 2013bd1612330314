package storage

import (
	"path/filepath"
	"strings"
)

// Filter selects which files of a directory take part in a run.
// An empty filter accepts every file.
type Filter struct {
	// Extensions restricts files to these suffixes (".md"); compared exactly
	Extensions []string
	// Exclude lists glob patterns matched against the base name, or against
	// the relative path when the pattern contains a slash. A pattern ending
	// in "/" excludes a directory during Walk.
	Exclude []string
}

// Accept reports whether the file at the slash-separated relative path passes
func (f Filter) Accept(relPath string) bool {
	base := filepath.Base(relPath)

	if len(f.Extensions) > 0 {
		ext := filepath.Ext(base)
		found := false
		for _, want := range f.Extensions {
			if ext == normalizeExt(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return !f.excluded(relPath, base)
}

// SkipDir reports whether Walk should not descend into dir
func (f Filter) SkipDir(relDir string) bool {
	for _, pattern := range f.Exclude {
		if !strings.HasSuffix(pattern, "/") {
			continue
		}
		dir := strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if relDir == dir || filepath.Base(relDir) == dir {
			return true
		}
	}
	return false
}

func (f Filter) excluded(relPath, base string) bool {
	for _, pattern := range f.Exclude {
		if pattern == "" || strings.HasSuffix(pattern, "/") {
			continue
		}

		pattern = filepath.ToSlash(pattern)
		if strings.Contains(pattern, "/") {
			if matched, _ := filepath.Match(pattern, relPath); matched {
				return true
			}
			continue
		}

		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

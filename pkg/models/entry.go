package models

import (
	"time"
)

// DirectoryFile represents a regular file in the target directory
type DirectoryFile struct {
	// Name is the base filename, unique within the directory
	Name string

	// Path is the full path on the filesystem
	Path string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time
}


// Directory is an in-memory snapshot of a directory listing.
// Enumeration order is preserved exactly as the backend reported it.
type Directory struct {
	Root  string
	files []DirectoryFile
	index map[string]int
}

// NewDirectory builds a snapshot from files in enumeration order.
// A repeated name keeps its first position.
func NewDirectory(root string, files []DirectoryFile) *Directory {
	d := &Directory{
		Root:  root,
		files: make([]DirectoryFile, 0, len(files)),
		index: make(map[string]int, len(files)),
	}
	for _, f := range files {
		if _, exists := d.index[f.Name]; exists {
			continue
		}
		d.index[f.Name] = len(d.files)
		d.files = append(d.files, f)
	}
	return d
}

// Lookup returns the file with the exact (case-sensitive) name
func (d *Directory) Lookup(name string) (DirectoryFile, bool) {
	i, ok := d.index[name]
	if !ok {
		return DirectoryFile{}, false
	}
	return d.files[i], true
}

// Files returns the files in enumeration order
func (d *Directory) Files() []DirectoryFile {
	out := make([]DirectoryFile, len(d.files))
	copy(out, d.files)
	return out
}

// Len returns the number of files in the snapshot
func (d *Directory) Len() int {
	return len(d.files)
}

// LogEntry is one non-empty line from the upload log
type LogEntry struct {
	// Line is the 1-based line number in the log
	Line int

	// Raw is the trimmed line text: a filename or a PREFIX...SUFFIX pattern
	Raw string
}

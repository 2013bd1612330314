package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdejongh/docrecon/pkg/models"
)

// Local is a filesystem-based storage backend over one directory
type Local struct {
	rootPath string
	filter   Filter
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string, filter Filter) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotDirectory, absPath)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absPath)
	}

	return &Local{rootPath: absPath, filter: filter}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// List returns the filtered regular files of the root in directory order.
// The order is whatever the filesystem reports; it is not sorted.
func (l *Local) List(ctx context.Context) ([]models.DirectoryFile, error) {
	dir, err := os.Open(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []models.DirectoryFile
	for _, d := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !l.filter.Accept(d.Name()) {
			continue
		}

		file, ok, err := l.regularFile(d, filepath.Join(l.rootPath, d.Name()), d.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, file)
		}
	}

	return files, nil
}

// Walk returns the filtered regular files under the root, recursively
func (l *Local) Walk(ctx context.Context) ([]models.DirectoryFile, error) {
	var files []models.DirectoryFile

	err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(l.rootPath, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && l.filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !l.filter.Accept(rel) {
			return nil
		}

		file, ok, err := l.regularFile(d, p, rel)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, file)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// regularFile resolves symlinks so that links to regular files count as files
func (l *Local) regularFile(d fs.DirEntry, fullPath, name string) (models.DirectoryFile, bool, error) {
	info, err := d.Info()
	if err != nil {
		if os.IsNotExist(err) {
			return models.DirectoryFile{}, false, nil
		}
		return models.DirectoryFile{}, false, fmt.Errorf("failed to stat %s: %w", name, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		info, err = os.Stat(fullPath)
		if err != nil {
			return models.DirectoryFile{}, false, nil
		}
	}

	if !info.Mode().IsRegular() {
		return models.DirectoryFile{}, false, nil
	}

	return models.DirectoryFile{
		Name:    name,
		Path:    fullPath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, true, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a single file; directories are refused
func (l *Local) Delete(ctx context.Context, name string) error {
	fullPath, err := l.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Exists checks if a file exists
func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	fullPath, err := l.resolve(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// resolve joins name onto the root, refusing names that leave it
func (l *Local) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return filepath.Join(l.rootPath, cleaned), nil
}

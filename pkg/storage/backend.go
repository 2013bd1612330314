package storage

import (
	"context"
	"errors"
	"io"

	"github.com/sdejongh/docrecon/pkg/models"
)

var (
	// ErrNotDirectory is returned when the backend root is missing or not a directory
	ErrNotDirectory = errors.New("not a directory")
	// ErrInvalidName is returned for names that escape the flat directory
	ErrInvalidName = errors.New("invalid file name")
)

// Backend defines the storage operations the reconciler and its consumers need.
// Names are base filenames relative to the backend root.
type Backend interface {
	// List returns the regular files directly inside the root that pass the
	// filter, in the order the filesystem enumerates them
	List(ctx context.Context) ([]models.DirectoryFile, error)

	// Walk returns every regular file under the root (recursively) that
	// passes the filter; Name holds the slash-separated relative path
	Walk(ctx context.Context) ([]models.DirectoryFile, error)

	// Read opens a file for reading
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a single file
	Delete(ctx context.Context, name string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, name string) (bool, error)

	// Root returns the absolute root path
	Root() string

	// Close releases any resources held by the backend
	Close() error
}

// Snapshot lists the backend once and freezes the result
func Snapshot(ctx context.Context, b Backend) (*models.Directory, error) {
	files, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewDirectory(b.Root(), files), nil
}

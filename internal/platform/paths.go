package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	// Convert to platform-specific separators
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	// Check for invalid characters based on OS
	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) && !IsUNCPath(path) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// RequireFile checks that path names an existing regular file
func RequireFile(path string) (string, error) {
	return require(path, false)
}

// RequireDir checks that path names an existing directory
func RequireDir(path string) (string, error) {
	return require(path, true)
}

func require(path string, wantDir bool) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	normalized := NormalizePath(path)
	info, err := os.Stat(normalized)
	if os.IsNotExist(err) {
		return "", &PathError{Path: path, Message: "does not exist"}
	}
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", path, err)
	}

	if wantDir && !info.IsDir() {
		return "", &PathError{Path: path, Message: "not a directory"}
	}
	if !wantDir && info.IsDir() {
		return "", &PathError{Path: path, Message: "is a directory"}
	}

	return normalized, nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}

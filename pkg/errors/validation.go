package errors

import (
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

// ValidateDirName validates the name of an output directory that is created
// under the base directory (downloads, results, logs).
//
// Validation rules:
//   - Name cannot be empty
//   - No control characters
//   - No absolute paths and no path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateDirName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "directory name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "directory name contains invalid characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPath, "directory name must be relative: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "directory name cannot contain path traversal sequences (..)")
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidPath, "directory name cannot contain backslashes")
	}

	return nil
}

// ValidateFilename validates a file name taken from a remote URL before it
// is written to disk. It must be a plain basename.
func ValidateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." {
		return New(ErrCodeInvalidPath, "invalid file name: %q", filename)
	}

	if strings.ContainsAny(filename, "/\\\x00") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators: %q", filename)
	}

	return nil
}

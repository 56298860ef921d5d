package utils

import "fmt"

// Common wrapping patterns for file handling errors

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}

// WrapReadError wraps an error with a "failed to read" message
func WrapReadError(path string, err error) error {
	return fmt.Errorf("failed to read %s: %w", path, err)
}

// WrapWriteError wraps an error with a "failed to write" message
func WrapWriteError(path string, err error) error {
	return fmt.Errorf("failed to write %s: %w", path, err)
}

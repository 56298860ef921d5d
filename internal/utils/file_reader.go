package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads and writes source files, caching contents until the file
// changes on disk
type FileReader struct {
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", WrapReadError(cleanPath, err)
	}

	contentStr := string(content)
	_ = fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)
	return contentStr, nil
}

// WriteFile replaces the file's contents through a temporary file in the same
// directory, keeping its permissions
func (fr *FileReader) WriteFile(filePath, content string) error {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(cleanPath); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(cleanPath), "."+filepath.Base(cleanPath)+".*")
	if err != nil {
		return WrapWriteError(cleanPath, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return WrapWriteError(cleanPath, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return WrapWriteError(cleanPath, err)
	}
	if err := tmp.Close(); err != nil {
		return WrapWriteError(cleanPath, err)
	}
	if err := os.Rename(tmp.Name(), cleanPath); err != nil {
		return WrapWriteError(cleanPath, err)
	}

	_ = fr.contentCache.SetWithFileInfo(cleanPath, content, cleanPath)
	return nil
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// CachedFiles returns the number of cached files
func (fr *FileReader) CachedFiles() int {
	return fr.contentCache.Size()
}

func (fr *FileReader) cleanPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}

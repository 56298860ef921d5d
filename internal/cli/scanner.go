package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/utils"
)

// DirectoryScanner finds the source files a run should process
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	extensions    []string
	excludes      []string
}

// NewDirectoryScanner creates a scanner matching files by extension
func NewDirectoryScanner(extensions, excludes []string) *DirectoryScanner {
	if len(extensions) == 0 {
		extensions = []string{".swift"}
	}
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
		extensions:    extensions,
		excludes:      excludes,
	}
}

// ScanFiles resolves paths into source files. Supports patterns like "./..."
// for recursive scanning; a plain directory is scanned without recursion.
func (s *DirectoryScanner) ScanFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"./..."}
	}

	files, err := s.fileProcessor.CollectFiles(paths, s.walkOptions())
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan paths", err).
			WithContext("paths", paths)
	}
	return files, nil
}

// Matches reports whether path is a source file this scanner would pick up
func (s *DirectoryScanner) Matches(path string) bool {
	return s.walkOptions().FileFilter(path, fileEntry(path))
}

// Directories returns the directories below the given patterns that watch mode observes
func (s *DirectoryScanner) Directories(paths []string) ([]string, error) {
	return s.fileProcessor.CollectDirectories(paths, s.walkOptions().DirectoryFilter)
}

func (s *DirectoryScanner) walkOptions() utils.FileWalkOptions {
	return utils.FileWalkOptions{
		FileFilter:      utils.SourceFileFilter(s.extensions, s.excludes),
		DirectoryFilter: utils.DefaultDirectoryFilter(s.excludes),
	}
}

// fileEntry describes a regular file by path alone, which also works for files
// that were just removed
type fileEntry string

func (f fileEntry) Name() string               { return filepath.Base(string(f)) }
func (f fileEntry) IsDir() bool                { return false }
func (f fileEntry) Type() os.FileMode          { return 0 }
func (f fileEntry) Info() (os.FileInfo, error) { return os.Stat(string(f)) }

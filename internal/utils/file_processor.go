package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileProcessor provides utilities for finding and rewriting source files
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceFileFilter accepts files ending in one of extensions, e.g. ".swift"
func SourceFileFilter(extensions []string, excludes []string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() || Excluded(path, excludes) {
			return false
		}
		name := info.Name()
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
		return false
	}
}

// DefaultDirectoryFilter skips hidden, vendored and build output directories
// as well as directories matching excludes
func DefaultDirectoryFilter(excludes []string) DirectoryFilter {
	skipDirs := map[string]bool{
		"node_modules": true,
		"Pods":         true,
		"Carthage":     true,
		"DerivedData":  true,
		"build":        true,
		"vendor":       true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name] && !Excluded(path, excludes)
	}
}

// Excluded reports whether path matches one of the glob patterns, either by
// one of its path elements or by full slash-separated path
func Excluded(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	elements := strings.Split(slashed, "/")
	for _, pattern := range patterns {
		for _, element := range elements {
			if ok, _ := filepath.Match(pattern, element); ok {
				return true
			}
		}
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		if strings.HasSuffix(pattern, "/**") && strings.Contains(slashed+"/", "/"+strings.TrimSuffix(pattern, "**")) {
			return true
		}
	}
	return false
}

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// CollectFiles resolves path patterns into a sorted, de-duplicated file list.
// "dir/..." walks dir recursively and a directory lists its own files. Named
// files go through the same file filter.
func (fp *FileProcessor) CollectFiles(patterns []string, options FileWalkOptions) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := pattern == "..." || strings.HasSuffix(pattern, "/...")
		root := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if root == "" {
			root = "."
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("path %s", root), err)
		}

		switch {
		case !info.IsDir():
			if options.FileFilter == nil || options.FileFilter(root, fs.FileInfoToDirEntry(info)) {
				add(filepath.Clean(root))
			}
		case recursive:
			matched, err := fp.WalkFiles(root, options)
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("directory walk %s", root), err)
			}
			for _, path := range matched {
				add(path)
			}
		default:
			entries, err := os.ReadDir(root)
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("directory read %s", root), err)
			}
			for _, entry := range entries {
				path := filepath.Join(root, entry.Name())
				if !entry.IsDir() && (options.FileFilter == nil || options.FileFilter(path, entry)) {
					add(path)
				}
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// CollectDirectories returns every directory below the patterns' roots that
// passes filter, the roots included
func (fp *FileProcessor) CollectDirectories(patterns []string, filter DirectoryFilter) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		recursive := pattern == "..." || strings.HasSuffix(pattern, "/...")
		root := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if root == "" {
			root = "."
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("path %s", root), err)
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
			recursive = false
		}

		err = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil || !entry.IsDir() {
				return nil
			}
			if path != root && (!recursive || (filter != nil && !filter(path, entry))) {
				return filepath.SkipDir
			}
			if !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory walk %s", root), err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFileProcessor_CollectFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Sources/App/API.swift":         "struct API {}",
		"Sources/App/Models/User.swift": "struct User {}",
		"Sources/App/README.md":         "# app",
		"Sources/App/Generated/X.swift": "struct X {}",
		".build/checkouts/Dep.swift":    "struct Dep {}",
		"Pods/Lib/Lib.swift":            "struct Lib {}",
		"Tests/APITests.swift":          "final class APITests {}",
	})

	fp := NewFileProcessor()
	options := FileWalkOptions{
		FileFilter:      SourceFileFilter([]string{".swift"}, []string{"Generated/**"}),
		DirectoryFilter: DefaultDirectoryFilter([]string{"Generated"}),
	}

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := fp.CollectFiles([]string{filepath.Join(root, "...")}, options)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "Sources/App/API.swift"),
			filepath.Join(root, "Sources/App/Models/User.swift"),
			filepath.Join(root, "Tests/APITests.swift"),
		}, files)
	})

	t.Run("single directory is not recursive", func(t *testing.T) {
		files, err := fp.CollectFiles([]string{filepath.Join(root, "Sources/App")}, options)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "Sources/App/API.swift")}, files)
	})

	t.Run("explicit files are deduplicated", func(t *testing.T) {
		api := filepath.Join(root, "Sources/App/API.swift")
		files, err := fp.CollectFiles([]string{api, api, filepath.Join(root, "Sources/App")}, options)
		require.NoError(t, err)
		assert.Equal(t, []string{api}, files)
	})

	t.Run("explicit files are filtered", func(t *testing.T) {
		files, err := fp.CollectFiles([]string{filepath.Join(root, "Sources/App/README.md")}, options)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := fp.CollectFiles([]string{filepath.Join(root, "nope")}, options)
		assert.Error(t, err)
	})
}

func TestExcluded(t *testing.T) {
	assert.True(t, Excluded("Sources/Generated/A.swift", []string{"Generated/**"}))
	assert.True(t, Excluded("Sources/A.pb.swift", []string{"*.pb.swift"}))
	assert.False(t, Excluded("Sources/A.swift", []string{"*.pb.swift", "Generated/**"}))
	assert.True(t, Excluded("Sources/Generated/A.swift", []string{"Generated"}))
	assert.False(t, Excluded("Sources/A.swift", nil))
}

func TestFileReader_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.swift")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))

	reader := NewFileReader()
	content, err := reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one", content)
	assert.Equal(t, 1, reader.CachedFiles())

	require.NoError(t, reader.WriteFile(path, "two, longer"))
	content, err = reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two, longer", content)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	_, err = reader.ReadFile("")
	assert.Error(t, err)
}

func TestCache_FileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.swift")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	cache := NewCache[string, string]()
	require.NoError(t, cache.SetWithFileInfo(path, "a", path))

	value, ok := cache.GetWithFileValidation(path, path)
	require.True(t, ok)
	assert.Equal(t, "a", value)

	require.NoError(t, os.WriteFile(path, []byte("bb"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	_, ok = cache.GetWithFileValidation(path, path)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())

	cache.Set("k", "v")
	cache.Clear()
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[string, int]("framework")
	require.NoError(t, r.Register("gin", 1))
	require.NoError(t, r.Register("echo", 2))
	assert.Error(t, r.Register("gin", 3))

	value, err := r.GetOrError("echo")
	require.NoError(t, err)
	assert.Equal(t, 2, value)

	_, err = r.GetOrError("chi")
	assert.EqualError(t, err, "unknown framework chi (available: [echo gin])")
	assert.Equal(t, 2, r.Size())
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(DiagnosticInfo)
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)

	d.Info("scanning %d files", 3)
	d.Verbose("hidden")
	d.Error("boom")
	d.Indent()
	d.List("a.swift")
	d.Unindent()
	d.SourceDiagnostic("a.swift:2:5", "Last parameter must be a closure.")
	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})

	assert.Equal(t, "[INFO] scanning 3 files\n  - a.swift\n\nDone\n   a: 1\n   b: 2\n", out.String())
	assert.Equal(t, "[ERROR] boom\na.swift:2:5: error: Last parameter must be a closure.\n", errOut.String())
}

func TestDiagnosticSystem_Silent(t *testing.T) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(DiagnosticSilent)
	d.SetOutput(&out, &errOut)

	d.Error("boom")
	d.Info("hello")
	d.SourceDiagnostic("x", "y")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

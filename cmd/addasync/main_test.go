package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/addasync/internal/config"
)

const service = `protocol UserService {
    @AddAsync
    func fetchUser(id: String, completion: @escaping (Result<User, Error>) -> Void)
}
`

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, config.Version+"\n", stdout)
}

func TestExpand_Print(t *testing.T) {
	root := project(t, map[string]string{"UserService.swift": service})
	path := filepath.Join(root, "UserService.swift")

	code, stdout, stderr := execute(t, "expand", filepath.Join(root, "..."))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "==> "+path+" <==")
	assert.Contains(t, stdout, "    // addasync:begin\n    func fetchUser(id: String) async throws -> User\n    // addasync:end\n")
	assert.Equal(t, service, read(t, path))
}

func TestExpand_WriteCheckClean(t *testing.T) {
	root := project(t, map[string]string{"UserService.swift": service})
	path := filepath.Join(root, "UserService.swift")
	pattern := filepath.Join(root, "...")

	code, _, stderr := execute(t, "expand", "--check", pattern)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "generated code is out of date")

	code, stdout, stderr := execute(t, "expand", "--write", pattern)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Expansion complete")
	assert.Contains(t, read(t, path), "func fetchUser(id: String) async throws -> User")

	code, _, stderr = execute(t, "expand", "--check", pattern)
	assert.Equal(t, 0, code, stderr)

	code, stdout, _ = execute(t, "clean", "--check", pattern)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, path)

	code, stdout, stderr = execute(t, "clean", pattern)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Removed generated code from 1 files")
	assert.Equal(t, service, read(t, path))
}

func TestExpand_Diagnostics(t *testing.T) {
	root := project(t, map[string]string{
		"Broken.swift": "protocol Broken {\n    @AddAsync\n    func reload()\n}\n",
	})

	code, _, stderr := execute(t, "expand", "--write", filepath.Join(root, "..."))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, filepath.Join(root, "Broken.swift")+":2:5: error: Function must have parameters.")
	assert.Contains(t, stderr, "some declarations could not be expanded")
}

func TestExpand_FlagsOverrideConfig(t *testing.T) {
	source := strings.ReplaceAll(service, "@AddAsync", "@Async")
	root := project(t, map[string]string{
		"UserService.swift": source,
		"addasync.yaml":     "guard: lock\nmarkers: false\n",
	})
	path := filepath.Join(root, "UserService.swift")

	code, _, stderr := execute(t,
		"--config", filepath.Join(root, "addasync.yaml"),
		"--attribute", "Async",
		"expand", "--write", path)
	require.Equal(t, 0, code, stderr)

	expanded := read(t, path)
	assert.Contains(t, expanded, "\n\n    func fetchUser(id: String) async throws -> User\n}")
	assert.NotContains(t, expanded, "addasync:begin")
}

func TestExpand_Errors(t *testing.T) {
	root := project(t, map[string]string{
		"UserService.swift": service,
		"future.yaml":       "requires: \">=v99.0.0\"\n",
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"conflicting modes", []string{"expand", "--write", "--check", root}, "mutually exclusive"},
		{"invalid guard", []string{"--guard", "mutex", "expand", root}, "guard must be one of [flag lock], got mutex"},
		{"invalid attribute", []string{"--attribute", "@Async", "expand", root}, "attribute must be a plain identifier"},
		{"required version", []string{"--config", filepath.Join(root, "future.yaml"), "expand", root}, "requires addasync >=v99.0.0"},
		{"missing config", []string{"--config", filepath.Join(root, "missing.yaml"), "expand", root}, "missing.yaml"},
		{"no files", []string{"expand", filepath.Join(root, "future.yaml")}, "no source files found"},
		{"unknown framework", []string{"serve", "--framework", "martini"}, "server.framework must be one of [gin echo fiber]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

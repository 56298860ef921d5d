package templates

import (
	stderrors "errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/addasync/internal/errors"
)

func TestRenderer_FlagGuardBody(t *testing.T) {
	r := NewRenderer("  ")
	out, err := r.Render(FlagGuardBody, BodyData{
		Throwing:     true,
		FuncName:     "fetch",
		CallArgs:     "id: id",
		Continuation: "continuation",
		Guard:        "resumed",
		Param:        "result",
	})
	require.NoError(t, err)

	expected := `{
  return try await withCheckedThrowingContinuation { continuation in
    var resumed = false
    fetch(id: id) { result in
      guard !resumed else { return }
      resumed = true
      continuation.resume(with: result)
    }
  }
}`
	assert.Equal(t, expected, out)
}

func TestRenderer_LockGuardBody(t *testing.T) {
	r := NewRenderer("    ")
	out, err := r.Render(LockGuardBody, BodyData{
		FuncName:     "count",
		Continuation: "continuation_",
		Guard:        "resumed",
		Param:        "value",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "return await withCheckedContinuation { continuation_ in\n")
	assert.Contains(t, out, "        let resumed = OSAllocatedUnfairLock(initialState: false)\n")
	assert.Contains(t, out, "        count() { value in\n")
	assert.Contains(t, out, "            continuation_.resume(returning: value)\n")
	assert.Equal(t, "    ", r.Unit())
}

func TestRenderer_PeerRegion(t *testing.T) {
	out, err := NewRenderer("    ").Render(PeerRegion, RegionData{
		Indent:      "    ",
		Begin:       "// begin",
		End:         "// end",
		Declaration: "    func f() async",
	})
	require.NoError(t, err)
	assert.Equal(t, "    // begin\n    func f() async\n    // end", out)
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	_, err := NewRenderer("    ").Render("missing", nil)
	require.Error(t, err)

	var base *errors.BaseError
	require.True(t, stderrors.As(err, &base))
	assert.Equal(t, errors.TemplateErrorCode, base.ErrorCode())
}

func TestRenderer_Concurrent(t *testing.T) {
	r := NewRenderer("    ")
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Render(PeerRegion, RegionData{Declaration: "func f() async"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestTemplateRegistry(t *testing.T) {
	registry := NewTemplateRegistry()
	names := registry.Names()
	sort.Strings(names)
	assert.Equal(t, []string{FlagGuardBody, LockGuardBody, PeerRegion}, names)

	_, ok := registry.Get("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { registry.MustGet("missing") })
	assert.NotEmpty(t, registry.MustGet(PeerRegion))
}

func TestReindent(t *testing.T) {
	assert.Equal(t, "  a\n\n    b", Reindent("a\n\n  b", "  "))
	assert.Equal(t, "a\nb", Reindent("a\nb", ""))
}

func TestImportManager(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "after last import",
			src:      "import Foundation\nimport UIKit\n\nclass A {}\n",
			expected: "import Foundation\nimport UIKit\nimport os\n\nclass A {}\n",
		},
		{
			name:     "no imports",
			src:      "class A {}\n",
			expected: "import os\n\nclass A {}\n",
		},
		{
			name:     "already imported",
			src:      "import os\nclass A {}\n",
			expected: "import os\nclass A {}\n",
		},
		{
			name:     "submodule counts",
			src:      "import os.log\nclass A {}\n",
			expected: "import os.log\nclass A {}\n",
		},
		{
			name:     "import without trailing newline",
			src:      "import Foundation",
			expected: "import Foundation\nimport os\n",
		},
		{
			name:     "nested text is not an import",
			src:      "class A {\n    // import os\n}\n",
			expected: "import os\n\nclass A {\n    // import os\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImportManager()
			im.AddImport("os")
			im.AddImport("")
			assert.Equal(t, tt.expected, im.Apply(tt.src))
		})
	}
}

func TestImportedModules(t *testing.T) {
	src := "import Foundation\n@testable import App\nimport struct Darwin.C.time_t\n  import Indented\n"
	assert.Equal(t, map[string]bool{"Foundation": true, "App": true, "Darwin": true}, ImportedModules(src))

	im := NewImportManager()
	im.AddImport("os")
	im.AddImport("Foundation")
	assert.Equal(t, []string{"Foundation", "os"}, im.Modules())
	assert.Equal(t, []string{"os"}, im.Missing(src))
}

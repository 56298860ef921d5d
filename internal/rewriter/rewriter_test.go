package rewriter

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/expander"
)

func swift(s string) string {
	return strings.TrimPrefix(dedent.Dedent(s), "\n")
}

func newRewriter() *Rewriter {
	return New(Options{Markers: true})
}

func TestRewrite_ProtocolRequirement(t *testing.T) {
	src := swift(`
		protocol UserService {
		    @AddAsync
		    func fetchUser(id: String, completion: @escaping (Result<User, Error>) -> Void)
		}
	`)

	result, err := newRewriter().Rewrite("UserService.swift", src)
	require.NoError(t, err)

	expected := swift(`
		protocol UserService {
		    @AddAsync
		    func fetchUser(id: String, completion: @escaping (Result<User, Error>) -> Void)

		    // addasync:begin
		    func fetchUser(id: String) async throws -> User
		    // addasync:end
		}
	`)
	assert.Equal(t, expected, result.Source)
	assert.True(t, result.Changed)
	assert.Empty(t, result.Diagnostics)
	require.Len(t, result.Expansions, 1)
	assert.Equal(t, Expansion{
		Name:     "fetchUser",
		Shape:    "result",
		Throws:   true,
		Location: errors.SourceLocation{File: "UserService.swift", Line: 2, Column: 5},
	}, result.Expansions[0])
}

func TestRewrite_Implementation(t *testing.T) {
	src := swift(`
		class API {
		    @AddAsync
		    func fetch(completion: @escaping (Result<String, Error>) -> Void) {
		        print("fetching")
		    }
		}
	`)

	result, err := newRewriter().Rewrite("API.swift", src)
	require.NoError(t, err)

	expected := swift(`
		class API {
		    @AddAsync
		    func fetch(completion: @escaping (Result<String, Error>) -> Void) {
		        print("fetching")
		    }

		    // addasync:begin
		    func fetch() async throws -> String {
		        return try await withCheckedThrowingContinuation { continuation in
		            var resumed = false
		            fetch() { result in
		                guard !resumed else { return }
		                resumed = true
		                continuation.resume(with: result)
		            }
		        }
		    }
		    // addasync:end
		}
	`)
	assert.Equal(t, expected, result.Source)
}

func TestRewrite_WithoutMarkers(t *testing.T) {
	src := "@AddAsync\nfunc list(done: @escaping ([Int]?) -> Void)\n"

	result, err := New(Options{}).Rewrite("a.swift", src)
	require.NoError(t, err)
	assert.Equal(t, "@AddAsync\nfunc list(done: @escaping ([Int]?) -> Void)\n\nfunc list() async -> [Int]?\n", result.Source)
}

func TestRewrite_WithoutMarkersIsIdempotent(t *testing.T) {
	sources := map[string]string{
		"implementation": "@AddAsync\nfunc f(completion: @escaping (Int) -> Void) {}\n",
		"requirement": swift(`
			protocol Store {
			    @AddAsync
			    func load(id: String, completion: @escaping (Result<Data, Error>) -> Void)
			}
		`),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			r := New(Options{})
			first, err := r.Rewrite("a.swift", src)
			require.NoError(t, err)
			require.True(t, first.Changed)
			require.Len(t, first.Expansions, 1)

			current := first.Source
			for range 3 {
				next, err := r.Rewrite("a.swift", current)
				require.NoError(t, err)
				assert.False(t, next.Changed)
				assert.Len(t, next.Expansions, 1)
				assert.Equal(t, first.Source, next.Source)
				current = next.Source
			}
			assert.Equal(t, 1, strings.Count(current, ") async"))
		})
	}
}

func TestRewrite_WithoutMarkersKeepsEditedPeerSeparate(t *testing.T) {
	src := "@AddAsync\nfunc f(completion: @escaping (Int) -> Void)\n\nfunc f() async -> String\n"

	result, err := New(Options{}).Rewrite("a.swift", src)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "@AddAsync\nfunc f(completion: @escaping (Int) -> Void)\n\nfunc f() async -> Int\n\nfunc f() async -> String\n", result.Source)
}

func TestRewrite_AttributeWithoutSpace(t *testing.T) {
	result, err := newRewriter().Rewrite("x.swift", "@AddAsync\nfunc a(completion: @escaping(Int) -> Void) {}\n")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	require.Len(t, result.Expansions, 1)
	assert.Contains(t, result.Source, "func a() async -> Int {")
}

func TestRewrite_IsIdempotent(t *testing.T) {
	src := swift(`
		struct Client {
		    @AddAsync
		    func fetch<T: Model>(with router: BaseRouter, type: FetchType, completion: @escaping ((T?) -> Void)) {
		        print("fetching generic")
		    }

		    @AddAsync
		    public func count(
		        in region: Region,
		        completion: @escaping (Int) -> Void
		    ) {
		        completion(0)
		    }
		}
	`)
	r := newRewriter()

	first, err := r.Rewrite("Client.swift", src)
	require.NoError(t, err)
	require.Len(t, first.Expansions, 2)
	assert.Contains(t, first.Source, "    func fetch<T: Model>(with router: BaseRouter, type: FetchType) async -> T? {")
	assert.Contains(t, first.Source, "    public func count(in region: Region) async -> Int {")
	assert.Contains(t, first.Source, "            count(in: region) { value in")

	second, err := r.Rewrite("Client.swift", first.Source)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Source, second.Source)

	assert.True(t, HasRegions(first.Source))
	assert.False(t, HasRegions(src))

	stripped, err := Strip(first.Source)
	require.NoError(t, err)
	assert.Equal(t, src, stripped)
}

func TestRewrite_Diagnostics(t *testing.T) {
	src := swift(`
		struct Store {
		    @AddAsync
		    var name: String

		    @AddAsync
		    func load(id: String)

		    @AddAsync
		    func reset()

		    @AddAsync
		    func pair(completion: @escaping (Data?, Error?) -> Void)

		    @AddAsync
		    func save(completion: @escaping (Bool) -> Void)
		}
	`)

	result, err := newRewriter().Rewrite("Store.swift", src)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 4)
	assert.Equal(t, []Diagnostic{
		{Code: errors.NotAFunctionCode, Message: "@AddAsync only works on functions.", Location: errors.SourceLocation{File: "Store.swift", Line: 2, Column: 5}},
		{Code: errors.NotAClosureCode, Message: "Last parameter must be a closure.", Location: errors.SourceLocation{File: "Store.swift", Line: 5, Column: 5}},
		{Code: errors.MissingParametersCode, Message: "Function must have parameters.", Location: errors.SourceLocation{File: "Store.swift", Line: 8, Column: 5}},
		{Code: errors.ClosureArityCode, Message: "Completion closure must take exactly one argument.", Location: errors.SourceLocation{File: "Store.swift", Line: 11, Column: 5}},
	}, result.Diagnostics)
	assert.True(t, result.HasDiagnostics())

	require.Len(t, result.Expansions, 1)
	assert.Equal(t, "save", result.Expansions[0].Name)
	assert.Contains(t, result.Source, "    func save() async -> Bool\n")
	assert.Equal(t, "Store.swift:2:5: @AddAsync only works on functions.", result.Diagnostics[0].String())
}

func TestRewrite_SyntaxErrorIsDiagnostic(t *testing.T) {
	src := "@AddAsync\nfunc broken(completion Int)\n\n@AddAsync\nfunc fine(done: (Int) -> Void)\n"

	result, err := newRewriter().Rewrite("b.swift", src)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.SyntaxErrorCode, result.Diagnostics[0].Code)
	assert.Equal(t, 2, result.Diagnostics[0].Location.Line)
	assert.Len(t, result.Expansions, 1)
}

func TestRewrite_CustomAttributeAndOptions(t *testing.T) {
	r := New(Options{
		Attribute: "@Asyncify",
		Markers:   true,
		Expander:  expander.Options{Guard: expander.GuardLock, Indent: "  "},
	})
	assert.Equal(t, "Asyncify", r.Attribute())

	src := "@AddAsync\nfunc a(done: (Int) -> Void)\n@Asyncify\nfunc b(done: (Int) -> Void) {\n}\n"
	result, err := r.Rewrite("c.swift", src)
	require.NoError(t, err)

	require.Len(t, result.Expansions, 1)
	assert.Equal(t, "b", result.Expansions[0].Name)
	assert.Contains(t, result.Source, "  return await withCheckedContinuation { continuation in\n    let resumed = OSAllocatedUnfairLock(initialState: false)\n")
	assert.True(t, strings.HasPrefix(result.Source, "import os\n\n@AddAsync\n"), "lock guard needs the os module")
}

func TestRewrite_LockGuardImportsOS(t *testing.T) {
	r := New(Options{Markers: true, Expander: expander.Options{Guard: expander.GuardLock}})

	src := swift(`
		import Foundation
		@testable import Networking

		final class API {
		    @AddAsync
		    func ping(completion: @escaping (Bool) -> Void) {
		        completion(true)
		    }
		}
	`)
	result, err := r.Rewrite("API.swift", src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Source, "import Foundation\n@testable import Networking\nimport os\n\nfinal class API {\n"))

	again, err := r.Rewrite("API.swift", result.Source)
	require.NoError(t, err)
	assert.False(t, again.Changed)

	requirement := "import os.log\n\nprotocol P {\n    @AddAsync\n    func ping(completion: @escaping (Bool) -> Void)\n}\n"
	result, err = r.Rewrite("P.swift", requirement)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Source, "import os.log\n\nprotocol P {"), "requirements have no body to guard")
}

func TestRewrite_NoAnnotations(t *testing.T) {
	src := "func plain() {}\n"

	result, err := newRewriter().Rewrite("d.swift", src)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, src, result.Source)
	assert.Empty(t, result.Expansions)
}

func TestExpandDeclaration(t *testing.T) {
	generated, err := newRewriter().ExpandDeclaration("func fetchUser(id: String, completion: @escaping (Result<User, Error>) -> Void)")
	require.NoError(t, err)
	assert.Equal(t, "func fetchUser(id: String) async throws -> User", generated.Source())

	_, err = newRewriter().ExpandDeclaration("let x = 1")
	var expErr *errors.ExpansionError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, errors.NotAFunctionCode, expErr.Kind())
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Attribute = "Asyncify"
	cfg.Guard = "lock"

	r := NewFromConfig(cfg)
	assert.Equal(t, "Asyncify", r.Attribute())

	result, err := r.Rewrite("e.swift", "@Asyncify\nfunc f(done: (Int) -> Void) {}\n")
	require.NoError(t, err)
	assert.Contains(t, result.Source, "// addasync:begin")
	assert.Contains(t, result.Source, "OSAllocatedUnfairLock")
}

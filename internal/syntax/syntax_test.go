package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ident(name string, args ...TypeSyntax) *IdentifierType {
	return &IdentifierType{Name: name, GenericArgs: args}
}

func TestTypeSyntax_String(t *testing.T) {
	tests := []struct {
		name     string
		typ      TypeSyntax
		expected string
	}{
		{"identifier", ident("String"), "String"},
		{"generic", ident("Result", ident("User"), ident("Error")), "Result<User, Error>"},
		{"optional", &OptionalType{Wrapped: ident("T")}, "T?"},
		{"optional array", &OptionalType{Wrapped: &ArrayType{Element: ident("T")}}, "[T]?"},
		{"dictionary", &DictionaryType{Key: ident("String"), Value: ident("Int")}, "[String: Int]"},
		{"member", &MemberType{Base: ident("Foundation"), Name: "Data"}, "Foundation.Data"},
		{"iuo", &ImplicitlyUnwrappedOptionalType{Wrapped: ident("T")}, "T!"},
		{"tuple", &TupleType{Elements: []TupleTypeElement{{Label: "a", Type: ident("Int")}, {Type: ident("String")}}}, "(a: Int, String)"},
		{
			"function",
			&FunctionType{Params: []TupleTypeElement{{Type: ident("Result", ident("String"), ident("Error"))}}, Return: ident("Void")},
			"(Result<String, Error>) -> Void",
		},
		{
			"async throwing function",
			&FunctionType{Async: true, Throws: "throws", Return: ident("Int")},
			"() async throws -> Int",
		},
		{
			"attributed",
			&AttributedType{Attributes: []Attribute{{Name: "escaping"}}, Base: &FunctionType{Return: ident("Void")}},
			"@escaping () -> Void",
		},
		{"inout", &AttributedType{Specifiers: []string{"inout"}, Base: ident("Int")}, "inout Int"},
		{"some", &SomeOrAnyType{Keyword: "some", Constraint: ident("View")}, "some View"},
		{"composition", &CompositionType{Types: []TypeSyntax{ident("A"), ident("B")}}, "A & B"},
		{"optional function", &OptionalType{Wrapped: &FunctionType{Return: ident("Void")}}, "(() -> Void)?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func TestParameter(t *testing.T) {
	labeled := Parameter{FirstName: "with", SecondName: "router", Type: ident("BaseRouter")}
	assert.Equal(t, "with", labeled.Label())
	assert.Equal(t, "router", labeled.Binding())
	assert.Equal(t, "with router: BaseRouter", labeled.String())

	wildcard := Parameter{FirstName: "_", SecondName: "type", Type: ident("FetchType")}
	assert.Equal(t, "", wildcard.Label())
	assert.Equal(t, "type", wildcard.Binding())

	single := Parameter{FirstName: "id", Type: ident("String"), Default: `"me"`}
	assert.Equal(t, "id", single.Label())
	assert.Equal(t, "id", single.Binding())
	assert.Equal(t, `id: String = "me"`, single.String())

	variadic := Parameter{FirstName: "ids", Type: ident("Int"), Variadic: true}
	assert.Equal(t, "ids: Int...", variadic.String())
}

func TestPrint(t *testing.T) {
	t.Run("no generics or where clause", func(t *testing.T) {
		fn := &FunctionDecl{
			Name:       "fetch",
			Async:      true,
			Throws:     "throws",
			ReturnType: ident("String"),
		}
		assert.Equal(t, "func fetch() async throws -> String", Print(fn))
	})

	t.Run("modifiers generics and where clause", func(t *testing.T) {
		fn := &FunctionDecl{
			Modifiers: []Modifier{{Name: "public"}, {Name: "static"}},
			Name:      "load",
			Generics:  &GenericParameterClause{Params: []GenericParameter{{Name: "T", Constraint: ident("Model")}}},
			Params: []Parameter{
				{FirstName: "with", SecondName: "router", Type: ident("BaseRouter")},
				{FirstName: "type", Type: ident("FetchType")},
			},
			Async:      true,
			ReturnType: &OptionalType{Wrapped: ident("T")},
			Where: &GenericWhereClause{Requirements: []GenericRequirement{
				{Left: ident("T"), Relation: ":", Right: ident("Codable")},
			}},
		}
		assert.Equal(t,
			"public static func load<T: Model>(with router: BaseRouter, type: FetchType) async -> T? where T: Codable",
			Print(fn))
	})

	t.Run("body follows signature", func(t *testing.T) {
		fn := &FunctionDecl{Name: "run", Body: &CodeBlock{Text: "{\n}"}}
		assert.Equal(t, "func run() {\n}", Print(fn))
	})

	t.Run("other declarations print their keyword", func(t *testing.T) {
		assert.Equal(t, "var", Print(&OtherDecl{Keyword: "var"}))
	})

	t.Run("attribute with arguments", func(t *testing.T) {
		fn := &FunctionDecl{Attributes: []Attribute{{Name: "available", Arguments: "iOS 13, *", HasParens: true}}, Name: "f"}
		assert.Equal(t, "@available(iOS 13, *) func f()", Signature(fn))
	})
}

func TestGenericRequirement_String(t *testing.T) {
	same := GenericRequirement{Left: &MemberType{Base: ident("T"), Name: "Element"}, Relation: "==", Right: ident("Int")}
	assert.Equal(t, "T.Element == Int", same.String())
}

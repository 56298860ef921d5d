// Package expander turns a function declaration taking a completion handler
// into a peer declaration using async/await.
//
// The transformation runs four forward-only stages: signature extraction,
// handler classification, shape selection and emission. It is a pure
// function of its input; an Expander holds no per-request state.
package expander

import "github.com/toyz/addasync/internal/syntax"

// FunctionSignature is what the extractor pulls out of a declaration
type FunctionSignature struct {
	Name      string
	Modifiers []syntax.Modifier
	Generics  *syntax.GenericParameterClause
	Where     *syntax.GenericWhereClause
	Params    []syntax.Parameter
	HasBody   bool
}

// HandlerShape classifies the single argument of a completion handler.
// Implemented by ResultLike and PlainValue only.
type HandlerShape interface {
	// ReturnType is the type the generated declaration returns
	ReturnType() syntax.TypeSyntax
	// Throws reports whether the generated declaration throws
	Throws() bool
	String() string
	handlerShape()
}

// ResultLike is a Result<Success, Failure> handler argument
type ResultLike struct {
	Success syntax.TypeSyntax
}

// PlainValue is any other handler argument, passed through verbatim
type PlainValue struct {
	Type syntax.TypeSyntax
}

func (s ResultLike) ReturnType() syntax.TypeSyntax { return s.Success }
func (ResultLike) Throws() bool                    { return true }
func (ResultLike) String() string                  { return "result" }
func (ResultLike) handlerShape()                   {}

func (s PlainValue) ReturnType() syntax.TypeSyntax { return s.Type }
func (PlainValue) Throws() bool                    { return false }
func (PlainValue) String() string                  { return "value" }
func (PlainValue) handlerShape()                   {}

// GeneratedDeclaration is the peer produced for one expansion request
type GeneratedDeclaration struct {
	Decl  *syntax.FunctionDecl
	Shape HandlerShape
}

// Source renders the generated declaration
func (g *GeneratedDeclaration) Source() string {
	return syntax.Print(g.Decl)
}

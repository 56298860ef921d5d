package syntax

import "strings"

// TypeSyntax is a parsed Swift type. The set of implementations is closed.
type TypeSyntax interface {
	String() string
	typeSyntax()
}

// IdentifierType is a named type with optional generic arguments, e.g. Result<T, Error>
type IdentifierType struct {
	Name        string
	GenericArgs []TypeSyntax
}

// MemberType is a qualified type, e.g. Foundation.Data or T.Element
type MemberType struct {
	Base        TypeSyntax
	Name        string
	GenericArgs []TypeSyntax
}

// OptionalType is T?
type OptionalType struct {
	Wrapped TypeSyntax
}

// ImplicitlyUnwrappedOptionalType is T!
type ImplicitlyUnwrappedOptionalType struct {
	Wrapped TypeSyntax
}

// ArrayType is [T]
type ArrayType struct {
	Element TypeSyntax
}

// DictionaryType is [K: V]
type DictionaryType struct {
	Key   TypeSyntax
	Value TypeSyntax
}

// TupleTypeElement is one element of a tuple or of a function type's parameter list
type TupleTypeElement struct {
	Label string
	Type  TypeSyntax
}

// TupleType is (A, B) or a parenthesized (T)
type TupleType struct {
	Elements []TupleTypeElement
}

// FunctionType is (Params) async throws -> Return
type FunctionType struct {
	Params []TupleTypeElement
	Async  bool
	Throws string // "", "throws" or "rethrows"
	Return TypeSyntax
}

// AttributedType carries specifiers and attributes, e.g. inout @escaping T
type AttributedType struct {
	Specifiers []string
	Attributes []Attribute
	Base       TypeSyntax
}

// SomeOrAnyType is some P or any P
type SomeOrAnyType struct {
	Keyword    string
	Constraint TypeSyntax
}

// CompositionType is A & B
type CompositionType struct {
	Types []TypeSyntax
}

func (*IdentifierType) typeSyntax()                  {}
func (*MemberType) typeSyntax()                      {}
func (*OptionalType) typeSyntax()                    {}
func (*ImplicitlyUnwrappedOptionalType) typeSyntax() {}
func (*ArrayType) typeSyntax()                       {}
func (*DictionaryType) typeSyntax()                  {}
func (*TupleType) typeSyntax()                       {}
func (*FunctionType) typeSyntax()                    {}
func (*AttributedType) typeSyntax()                  {}
func (*SomeOrAnyType) typeSyntax()                   {}
func (*CompositionType) typeSyntax()                 {}

func (t *IdentifierType) String() string {
	return t.Name + genericArgs(t.GenericArgs)
}

func (t *MemberType) String() string {
	return t.Base.String() + "." + t.Name + genericArgs(t.GenericArgs)
}

func (t *OptionalType) String() string {
	return wrapForSuffix(t.Wrapped) + "?"
}

func (t *ImplicitlyUnwrappedOptionalType) String() string {
	return wrapForSuffix(t.Wrapped) + "!"
}

func (t *ArrayType) String() string {
	return "[" + t.Element.String() + "]"
}

func (t *DictionaryType) String() string {
	return "[" + t.Key.String() + ": " + t.Value.String() + "]"
}

func (t *TupleType) String() string {
	return "(" + elements(t.Elements) + ")"
}

func (t *FunctionType) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(elements(t.Params))
	b.WriteString(")")
	if t.Async {
		b.WriteString(" async")
	}
	if t.Throws != "" {
		b.WriteString(" " + t.Throws)
	}
	b.WriteString(" -> ")
	b.WriteString(t.Return.String())
	return b.String()
}

func (t *AttributedType) String() string {
	var parts []string
	parts = append(parts, t.Specifiers...)
	for _, attr := range t.Attributes {
		parts = append(parts, attr.String())
	}
	parts = append(parts, t.Base.String())
	return strings.Join(parts, " ")
}

func (t *SomeOrAnyType) String() string {
	return t.Keyword + " " + t.Constraint.String()
}

func (t *CompositionType) String() string {
	parts := make([]string, len(t.Types))
	for i, typ := range t.Types {
		parts[i] = typ.String()
	}
	return strings.Join(parts, " & ")
}

func genericArgs(args []TypeSyntax) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func elements(elems []TupleTypeElement) string {
	parts := make([]string, len(elems))
	for i, elem := range elems {
		if elem.Label != "" {
			parts[i] = elem.Label + ": " + elem.Type.String()
		} else {
			parts[i] = elem.Type.String()
		}
	}
	return strings.Join(parts, ", ")
}

// wrapForSuffix parenthesizes types that would bind looser than a ? or ! suffix.
func wrapForSuffix(t TypeSyntax) string {
	switch t.(type) {
	case *FunctionType, *CompositionType, *SomeOrAnyType, *AttributedType:
		return "(" + t.String() + ")"
	}
	return t.String()
}

// Package syntax holds the structured representation of Swift declarations
// exchanged between the front end, the expander and the rewriter.
package syntax

import "strings"

// Position is a 1-based line and column inside a source file
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Decl is a declaration handed to the expander
type Decl interface {
	DeclKeyword() string
	decl()
}

// Attribute is @Name or @Name(args)
type Attribute struct {
	Name      string
	Arguments string // raw text between the parentheses, "" when absent
	HasParens bool
}

func (a Attribute) String() string {
	if !a.HasParens {
		return "@" + a.Name
	}
	return "@" + a.Name + "(" + a.Arguments + ")"
}

// Modifier is a declaration modifier such as public, static or private(set)
type Modifier struct {
	Name   string
	Detail string
}

func (m Modifier) String() string {
	if m.Detail == "" {
		return m.Name
	}
	return m.Name + "(" + m.Detail + ")"
}

// GenericParameter is T or T: Constraint
type GenericParameter struct {
	Name       string
	Constraint TypeSyntax
}

// GenericParameterClause is <T, U: P>
type GenericParameterClause struct {
	Params []GenericParameter
}

func (c *GenericParameterClause) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		if p.Constraint != nil {
			parts[i] = p.Name + ": " + p.Constraint.String()
		} else {
			parts[i] = p.Name
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// GenericRequirement is T: P or T == U
type GenericRequirement struct {
	Left     TypeSyntax
	Relation string // ":" or "=="
	Right    TypeSyntax
}

func (r GenericRequirement) String() string {
	if r.Relation == ":" {
		return r.Left.String() + ": " + r.Right.String()
	}
	return r.Left.String() + " " + r.Relation + " " + r.Right.String()
}

// GenericWhereClause is where T: P, U == V
type GenericWhereClause struct {
	Requirements []GenericRequirement
}

func (c *GenericWhereClause) String() string {
	parts := make([]string, len(c.Requirements))
	for i, r := range c.Requirements {
		parts[i] = r.String()
	}
	return "where " + strings.Join(parts, ", ")
}

// Parameter is one entry of a function's parameter clause
type Parameter struct {
	FirstName  string // external label, "_" for none
	SecondName string // internal binding, "" when the first name is used for both
	Type       TypeSyntax
	Variadic   bool
	Default    string
}

// Label returns the external label or "" when the parameter is unlabeled
func (p Parameter) Label() string {
	if p.FirstName == "_" {
		return ""
	}
	return p.FirstName
}

// Binding returns the name the parameter is bound to inside the body
func (p Parameter) Binding() string {
	if p.SecondName != "" {
		return p.SecondName
	}
	return p.FirstName
}

func (p Parameter) String() string {
	var b strings.Builder
	b.WriteString(p.FirstName)
	if p.SecondName != "" {
		b.WriteString(" " + p.SecondName)
	}
	b.WriteString(": ")
	b.WriteString(p.Type.String())
	if p.Variadic {
		b.WriteString("...")
	}
	if p.Default != "" {
		b.WriteString(" = " + p.Default)
	}
	return b.String()
}

// CodeBlock is a function body. Text holds the braces and everything between them.
type CodeBlock struct {
	Text string
}

// FunctionDecl is a func declaration, with or without a body
type FunctionDecl struct {
	Attributes []Attribute
	Modifiers  []Modifier
	Name       string
	Generics   *GenericParameterClause
	Params     []Parameter
	Async      bool
	Throws     string
	ReturnType TypeSyntax
	Where      *GenericWhereClause
	Body       *CodeBlock
	Pos        Position
}

func (*FunctionDecl) DeclKeyword() string { return "func" }
func (*FunctionDecl) decl()               {}

// OtherDecl is any declaration that is not a function
type OtherDecl struct {
	Keyword string
	Pos     Position
}

func (d *OtherDecl) DeclKeyword() string { return d.Keyword }
func (*OtherDecl) decl()                 {}

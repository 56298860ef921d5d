package swiftparse

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/addasync/internal/syntax"
)

// headerNode is a function declaration up to, but not including, its body
type headerNode struct {
	Attributes []*attributeNode    `parser:"@@*"`
	Modifiers  []*modifierNode     `parser:"@@*"`
	Keyword    string              `parser:"@'func'"`
	Name       string              `parser:"@Ident"`
	Generics   []*genericParamNode `parser:"('<' @@ (',' @@)* '>')?"`
	Params     []*paramNode        `parser:"'(' (@@ (',' @@)*)? ')'"`
	Async      bool                `parser:"@'async'?"`
	Throws     string              `parser:"@('throws' | 'rethrows')?"`
	Return     *typeNode           `parser:"('->' @@)?"`
	Where      []*requirementNode  `parser:"('where' @@ (',' @@)*)?"`
}

type modifierNode struct {
	Name   string `parser:"@('public' | 'private' | 'fileprivate' | 'internal' | 'package' | 'open' | 'static' | 'class' | 'final' | 'mutating' | 'nonmutating' | 'override' | 'nonisolated' | 'isolated' | 'convenience' | 'required' | 'dynamic' | 'optional' | 'distributed' | 'indirect' | 'prefix' | 'postfix' | 'infix')"`
	Detail string `parser:"('(' @Ident ')')?"`
}

type genericParamNode struct {
	Name       string    `parser:"@Ident"`
	Constraint *typeNode `parser:"(':' @@)?"`
}

type requirementNode struct {
	Left     *typeNode `parser:"@@"`
	Relation string    `parser:"@(':' | '==')"`
	Right    *typeNode `parser:"@@"`
}

type paramNode struct {
	FirstName  string    `parser:"@Ident"`
	SecondName string    `parser:"@Ident?"`
	Type       *typeNode `parser:"':' @@"`
	Variadic   bool      `parser:"@'...'?"`
	Default    *exprNode `parser:"('=' @@)?"`
}

// attributeNode is a declaration attribute, arguments included
type attributeNode struct {
	Tokens []lexer.Token

	Name      string          `parser:"@(Attribute | TypeAttribute)"`
	Arguments []*balancedNode `parser:"('(' @@* ')')?"`
}

// exprNode is an expression running up to the next top-level ',' or ')'
type exprNode struct {
	Tokens []lexer.Token

	Items []*itemNode `parser:"@@+"`
}

type itemNode struct {
	Group *groupNode `parser:"  @@"`
	Token string     `parser:"| @~(',' | '(' | ')' | '[' | ']' | '{' | '}')"`
}

// groupNode is a bracketed run of tokens, commas included
type groupNode struct {
	Open  string          `parser:"@('(' | '[' | '{')"`
	Items []*balancedNode `parser:"@@*"`
	Close string          `parser:"@(')' | ']' | '}')"`
}

type balancedNode struct {
	Group *groupNode `parser:"  @@"`
	Token string     `parser:"| @~('(' | ')' | '[' | ']' | '{' | '}')"`
}

type typeNode struct {
	Specifiers []string       `parser:"@('inout' | 'borrowing' | 'consuming' | '__owned' | '__shared')*"`
	Attributes []string       `parser:"@(Attribute | TypeAttribute)*"`
	Opaque     string         `parser:"@('some' | 'any')?"`
	Types      []*postfixNode `parser:"@@ ('&' @@)*"`
}

type postfixNode struct {
	Primary  *primaryNode `parser:"@@"`
	Suffixes []string     `parser:"@('?' | '!')*"`
}

type primaryNode struct {
	Paren   *parenNode   `parser:"  @@"`
	Bracket *bracketNode `parser:"| @@"`
	Named   *namedNode   `parser:"| @@"`
}

type parenNode struct {
	Elements []*elementNode `parser:"'(' (@@ (',' @@)*)? ')'"`
	Async    bool           `parser:"@'async'?"`
	Throws   string         `parser:"@('throws' | 'rethrows')?"`
	Return   *typeNode      `parser:"('->' @@)?"`
}

type elementNode struct {
	Label *labelNode `parser:"@@?"`
	Type  *typeNode  `parser:"@@"`
}

type labelNode struct {
	First  string `parser:"@Ident"`
	Second string `parser:"@Ident? ':'"`
}

type bracketNode struct {
	Key   *typeNode `parser:"'[' @@"`
	Value *typeNode `parser:"(':' @@)? ']'"`
}

type namedNode struct {
	Name    string        `parser:"@Ident"`
	Args    []*typeNode   `parser:"('<' @@ (',' @@)* '>')?"`
	Members []*memberNode `parser:"('.' @@)*"`
}

type memberNode struct {
	Name string      `parser:"@Ident"`
	Args []*typeNode `parser:"('<' @@ (',' @@)* '>')?"`
}

func (h *headerNode) toDecl() *syntax.FunctionDecl {
	fn := &syntax.FunctionDecl{
		Name:   h.Name,
		Async:  h.Async,
		Throws: h.Throws,
	}
	for _, a := range h.Attributes {
		fn.Attributes = append(fn.Attributes, ParseAttribute(rawText(a.Tokens)))
	}
	for _, m := range h.Modifiers {
		fn.Modifiers = append(fn.Modifiers, syntax.Modifier{Name: m.Name, Detail: m.Detail})
	}
	if len(h.Generics) > 0 {
		clause := &syntax.GenericParameterClause{}
		for _, g := range h.Generics {
			param := syntax.GenericParameter{Name: g.Name}
			if g.Constraint != nil {
				param.Constraint = g.Constraint.toType()
			}
			clause.Params = append(clause.Params, param)
		}
		fn.Generics = clause
	}
	for _, p := range h.Params {
		param := syntax.Parameter{
			FirstName:  p.FirstName,
			SecondName: p.SecondName,
			Type:       p.Type.toType(),
			Variadic:   p.Variadic,
		}
		if p.Default != nil {
			param.Default = rawText(p.Default.Tokens)
		}
		fn.Params = append(fn.Params, param)
	}
	if h.Return != nil {
		fn.ReturnType = h.Return.toType()
	}
	if len(h.Where) > 0 {
		clause := &syntax.GenericWhereClause{}
		for _, r := range h.Where {
			clause.Requirements = append(clause.Requirements, syntax.GenericRequirement{
				Left:     r.Left.toType(),
				Relation: r.Relation,
				Right:    r.Right.toType(),
			})
		}
		fn.Where = clause
	}
	return fn
}

func (t *typeNode) toType() syntax.TypeSyntax {
	var base syntax.TypeSyntax
	if len(t.Types) == 1 {
		base = t.Types[0].toType()
	} else {
		comp := &syntax.CompositionType{}
		for _, p := range t.Types {
			comp.Types = append(comp.Types, p.toType())
		}
		base = comp
	}
	if t.Opaque != "" {
		base = &syntax.SomeOrAnyType{Keyword: t.Opaque, Constraint: base}
	}
	if len(t.Specifiers) > 0 || len(t.Attributes) > 0 {
		attributed := &syntax.AttributedType{
			Attributes: convertAttributes(t.Attributes),
			Base:       base,
		}
		if len(t.Specifiers) > 0 {
			attributed.Specifiers = t.Specifiers
		}
		base = attributed
	}
	return base
}

func (p *postfixNode) toType() syntax.TypeSyntax {
	typ := p.Primary.toType()
	for _, suffix := range p.Suffixes {
		if suffix == "?" {
			typ = &syntax.OptionalType{Wrapped: typ}
		} else {
			typ = &syntax.ImplicitlyUnwrappedOptionalType{Wrapped: typ}
		}
	}
	return typ
}

func (p *primaryNode) toType() syntax.TypeSyntax {
	switch {
	case p.Paren != nil:
		return p.Paren.toType()
	case p.Bracket != nil:
		if p.Bracket.Value != nil {
			return &syntax.DictionaryType{Key: p.Bracket.Key.toType(), Value: p.Bracket.Value.toType()}
		}
		return &syntax.ArrayType{Element: p.Bracket.Key.toType()}
	default:
		return p.Named.toType()
	}
}

func (p *parenNode) toType() syntax.TypeSyntax {
	elems := make([]syntax.TupleTypeElement, 0, len(p.Elements))
	for _, e := range p.Elements {
		elem := syntax.TupleTypeElement{Type: e.Type.toType()}
		if e.Label != nil {
			elem.Label = strings.TrimSpace(e.Label.First + " " + e.Label.Second)
		}
		elems = append(elems, elem)
	}
	if p.Return == nil {
		return &syntax.TupleType{Elements: elems}
	}
	return &syntax.FunctionType{
		Params: elems,
		Async:  p.Async,
		Throws: p.Throws,
		Return: p.Return.toType(),
	}
}

func (n *namedNode) toType() syntax.TypeSyntax {
	var typ syntax.TypeSyntax = &syntax.IdentifierType{Name: n.Name, GenericArgs: convertTypes(n.Args)}
	for _, m := range n.Members {
		typ = &syntax.MemberType{Base: typ, Name: m.Name, GenericArgs: convertTypes(m.Args)}
	}
	return typ
}

// rawText reassembles captured tokens as written, without surrounding whitespace
func rawText(tokens []lexer.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Value)
	}
	return strings.TrimSpace(b.String())
}

func convertTypes(nodes []*typeNode) []syntax.TypeSyntax {
	if len(nodes) == 0 {
		return nil
	}
	types := make([]syntax.TypeSyntax, len(nodes))
	for i, n := range nodes {
		types[i] = n.toType()
	}
	return types
}

func convertAttributes(raw []string) []syntax.Attribute {
	if len(raw) == 0 {
		return nil
	}
	attrs := make([]syntax.Attribute, 0, len(raw))
	for _, text := range raw {
		attrs = append(attrs, ParseAttribute(text))
	}
	return attrs
}

// ParseAttribute splits an attribute token such as @available(iOS 13, *) into name and arguments
func ParseAttribute(text string) syntax.Attribute {
	text = strings.TrimPrefix(text, "@")
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return syntax.Attribute{Name: text}
	}
	return syntax.Attribute{
		Name:      text[:open],
		Arguments: text[open+1 : len(text)-1],
		HasParens: true,
	}
}

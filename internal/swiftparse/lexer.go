package swiftparse

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/syntax"
)

// TokenKind classifies a lexed token
type TokenKind int

const (
	EOF TokenKind = iota
	Comment
	String
	Number
	Arrow
	Ellipsis
	Equality
	Attribute
	Ident
	Newline
	Whitespace
	Punct
	Operator
)

// Token is a lexed piece of Swift source
type Token struct {
	Kind  TokenKind
	Value string
	Pos   syntax.Position
}

// End returns the byte offset just past the token
func (t Token) End() int {
	return t.Pos.Offset + len(t.Value)
}

// Is reports whether the token is punctuation or an identifier with the given text
func (t Token) Is(value string) bool {
	return (t.Kind == Punct || t.Kind == Ident || t.Kind == Arrow || t.Kind == Equality) && t.Value == value
}

// Trivia reports whether the token carries no syntax
func (t Token) Trivia() bool {
	return t.Kind == Whitespace || t.Kind == Newline || t.Kind == Comment
}

var swiftLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "MultiString", Pattern: `"""(?s:.*?)"""`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Number", Pattern: `[0-9][0-9_]*(\.[0-9][0-9_]*)?`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Equality", Pattern: `==`},
	{Name: "TypeAttribute", Pattern: `@(convention|differentiable)\([^()\n]*\)`},
	{Name: "Attribute", Pattern: `@[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Ident", Pattern: "`[^`\\n]+`|[A-Za-z_][A-Za-z0-9_]*"},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Punct", Pattern: `[(){}\[\]<>:,.?!=&;]`},
	{Name: "Operator", Pattern: `[-+*/%|^~#\\$'@]`},
	{Name: "Other", Pattern: `.`},
})

var kindsByType = func() map[lexer.TokenType]TokenKind {
	names := map[string]TokenKind{
		"EOF":           EOF,
		"Comment":       Comment,
		"MultiString":   String,
		"String":        String,
		"Number":        Number,
		"Arrow":         Arrow,
		"Ellipsis":      Ellipsis,
		"Equality":      Equality,
		"TypeAttribute": Attribute,
		"Attribute":     Attribute,
		"Ident":         Ident,
		"Newline":       Newline,
		"Whitespace":    Whitespace,
		"Punct":         Punct,
		"Operator":      Operator,
		"Other":         Operator,
	}
	kinds := make(map[lexer.TokenType]TokenKind, len(names))
	for name, typ := range swiftLexer.Symbols() {
		if kind, ok := names[name]; ok {
			kinds[typ] = kind
		}
	}
	return kinds
}()

// Tokenize lexes src, keeping trivia. The last token is always EOF.
func Tokenize(filename, src string) ([]Token, error) {
	lex, err := swiftLexer.Lex(filename, strings.NewReader(src))
	if err != nil {
		return nil, errors.WrapParseError(filename, errors.SourceLocation{File: filename}, err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		loc := errors.SourceLocation{File: filename}
		if perr, ok := err.(interface{ Position() lexer.Position }); ok {
			pos := perr.Position()
			loc.Line, loc.Column = pos.Line, pos.Column
		}
		return nil, errors.WrapParseError(filename, loc, err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		kind, ok := kindsByType[tok.Type]
		if !ok && tok.EOF() {
			kind = EOF
		}
		tokens = append(tokens, Token{
			Kind:  kind,
			Value: tok.Value,
			Pos: syntax.Position{
				Filename: tok.Pos.Filename,
				Offset:   tok.Pos.Offset,
				Line:     tok.Pos.Line,
				Column:   tok.Pos.Column,
			},
		})
	}
	return tokens, nil
}

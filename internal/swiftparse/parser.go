// Package swiftparse turns Swift declaration text into the structured
// representation consumed by the expander.
package swiftparse

import (
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/syntax"
)

// Modifiers that may precede a declaration keyword
var declModifiers = map[string]bool{
	"public": true, "private": true, "fileprivate": true, "internal": true, "package": true,
	"open": true, "static": true, "class": true, "final": true, "mutating": true,
	"nonmutating": true, "override": true, "nonisolated": true, "isolated": true,
	"convenience": true, "required": true, "dynamic": true, "optional": true,
	"distributed": true, "indirect": true, "prefix": true, "postfix": true, "infix": true,
	"lazy": true, "weak": true, "unowned": true,
}

// Keywords a class modifier may precede
var memberKeywords = map[string]bool{
	"func": true, "var": true, "let": true, "subscript": true, "typealias": true,
}

// Parser parses single declarations. Safe for concurrent use.
type Parser struct {
	header *participle.Parser[headerNode]
}

// NewParser creates a declaration parser
func NewParser() *Parser {
	return &Parser{
		header: participle.MustBuild[headerNode](
			participle.Lexer(swiftLexer),
			participle.Elide("Whitespace", "Newline", "Comment"),
			participle.UseLookahead(4),
		),
	}
}

// ParseDecl parses one declaration. origin is the position of text's first byte
// inside its file and is used to report absolute locations.
func (p *Parser) ParseDecl(text string, origin syntax.Position) (syntax.Decl, error) {
	tokens, err := Tokenize(origin.Filename, text)
	if err != nil {
		return nil, err
	}

	keyword, kwTok := declKeyword(tokens)
	if keyword != "func" {
		pos := origin
		if kwTok != nil {
			pos = absolute(origin, kwTok.Pos)
		}
		return &syntax.OtherDecl{Keyword: keyword, Pos: pos}, nil
	}

	headerEnd, body, err := splitBody(tokens, text)
	if err != nil {
		return nil, withOrigin(err, origin)
	}

	node, err := p.header.ParseString(origin.Filename, text[:headerEnd])
	if err != nil {
		return nil, headerError(err, origin)
	}

	fn := node.toDecl()
	fn.Body = body
	fn.Pos = origin
	return fn, nil
}

// declKeyword finds the keyword following the attributes and modifiers
func declKeyword(tokens []Token) (string, *Token) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Trivia():
			continue
		case tok.Kind == Attribute:
			i = skipAttributeArguments(tokens, i)
			continue
		case tok.Kind == Ident && tok.Value == "class" && !classModifier(tokens, i):
			return tok.Value, &tokens[i]
		case tok.Kind == Ident && declModifiers[tok.Value]:
			// skip a detail such as private(set)
			if j := nextSignificant(tokens, i+1); j < len(tokens) && tokens[j].Is("(") {
				if k := nextSignificant(tokens, j+1); k+1 < len(tokens) && tokens[k].Kind == Ident {
					if l := nextSignificant(tokens, k+1); l < len(tokens) && tokens[l].Is(")") {
						i = l
					}
				}
			}
			continue
		default:
			return tok.Value, &tokens[i]
		}
	}
	return "", nil
}

// classModifier reports whether the class token at i modifies a member, as in
// class func, rather than declaring a class
func classModifier(tokens []Token, i int) bool {
	j := nextSignificant(tokens, i+1)
	if j >= len(tokens) || tokens[j].Kind != Ident {
		return false
	}
	next := tokens[j].Value
	return next != "class" && (declModifiers[next] || memberKeywords[next])
}

// skipAttributeArguments returns the index of the ')' closing the arguments of
// the declaration attribute at i, or i when it has none
func skipAttributeArguments(tokens []Token, i int) int {
	j := nextSignificant(tokens, i+1)
	if j >= len(tokens) || !tokens[j].Is("(") || strings.HasSuffix(tokens[i].Value, ")") {
		return i
	}
	depth := 0
	for k := j; k < len(tokens); k++ {
		switch {
		case tokens[k].Is("("):
			depth++
		case tokens[k].Is(")"):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return i
}

func nextSignificant(tokens []Token, from int) int {
	for i := from; i < len(tokens); i++ {
		if !tokens[i].Trivia() {
			return i
		}
	}
	return len(tokens)
}

// splitBody returns the end offset of the header and the body, if any.
// The body starts at the first '{' outside parentheses and brackets and must
// run to the end of text.
func splitBody(tokens []Token, text string) (int, *syntax.CodeBlock, error) {
	depth := 0
	for i, tok := range tokens {
		switch {
		case tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		case tok.Is("{") && depth == 0:
			end, err := matchBrace(tokens, i)
			if err != nil {
				return 0, nil, err
			}
			if rest := nextSignificant(tokens, end+1); rest < len(tokens) && tokens[rest].Kind != EOF && !tokens[rest].Is(";") {
				return 0, nil, errors.NewSyntaxError("unexpected tokens after function body", location(tokens[rest].Pos))
			}
			return tok.Pos.Offset, &syntax.CodeBlock{Text: text[tok.Pos.Offset:tokens[end].End()]}, nil
		case tok.Is(";") && depth == 0:
			return tok.Pos.Offset, nil, nil
		}
	}
	return len(text), nil, nil
}

// matchBrace returns the index of the '}' closing the '{' at open
func matchBrace(tokens []Token, open int) (int, error) {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch {
		case tokens[i].Is("{"):
			depth++
		case tokens[i].Is("}"):
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.NewSyntaxError("unterminated function body", location(tokens[open].Pos))
}

// MatchBrace is matchBrace for callers scanning whole files
func MatchBrace(tokens []Token, open int) (int, error) {
	return matchBrace(tokens, open)
}

func location(pos syntax.Position) errors.SourceLocation {
	return errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// absolute maps a position relative to a snippet back into its file
func absolute(origin, rel syntax.Position) syntax.Position {
	pos := syntax.Position{
		Filename: origin.Filename,
		Offset:   origin.Offset + rel.Offset,
		Line:     origin.Line + rel.Line - 1,
		Column:   rel.Column,
	}
	if origin.Line == 0 {
		pos.Line = rel.Line
	}
	if rel.Line == 1 && origin.Column > 0 {
		pos.Column = origin.Column + rel.Column - 1
	}
	return pos
}

func withOrigin(err error, origin syntax.Position) error {
	if synErr, ok := err.(*errors.SyntaxError); ok {
		rel := syntax.Position{Line: synErr.Loc.Line, Column: synErr.Loc.Column}
		abs := absolute(origin, rel)
		synErr.Loc = errors.SourceLocation{File: origin.Filename, Line: abs.Line, Column: abs.Column}
	}
	return err
}

func headerError(err error, origin syntax.Position) error {
	loc := errors.SourceLocation{File: origin.Filename, Line: origin.Line, Column: origin.Column}
	message := err.Error()
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		abs := absolute(origin, syntax.Position{Line: pos.Line, Column: pos.Column})
		loc.Line, loc.Column = abs.Line, abs.Column
		message = perr.Message()
	}
	return errors.NewSyntaxError("invalid function declaration: "+strings.TrimSpace(message), loc)
}

package rewriter

import (
	"github.com/toyz/addasync/internal/swiftparse"
	"github.com/toyz/addasync/internal/syntax"
)

// Keywords that introduce a declaration after its attributes and modifiers
var declKeywords = map[string]bool{
	"func": true, "var": true, "let": true, "init": true, "deinit": true,
	"subscript": true, "struct": true, "enum": true, "protocol": true,
	"actor": true, "extension": true, "typealias": true, "case": true,
	"associatedtype": true, "macro": true, "import": true, "operator": true,
}

// Tokens that continue a declaration header on the next line
var continuations = map[string]bool{
	"->": true, "where": true, "async": true, "throws": true, "rethrows": true,
	"{": true, ",": true, "&": true,
}

// extent locates one annotated declaration in the file
type extent struct {
	origin   syntax.Position // position of the attribute token
	start    int             // offset of the attribute token
	end      int             // offset just past the declaration
	insertAt int             // offset where the peer is spliced
}

// findExtents returns the annotated declarations in source order. Annotations
// nested inside an earlier declaration's extent are skipped.
func findExtents(tokens []swiftparse.Token, attribute string) []extent {
	var extents []extent
	covered := -1

	for i, tok := range tokens {
		if tok.Kind != swiftparse.Attribute || tok.Pos.Offset < covered {
			continue
		}
		if swiftparse.ParseAttribute(tok.Value).Name != attribute {
			continue
		}
		ext := declarationExtent(tokens, i)
		extents = append(extents, ext)
		covered = ext.end
	}
	return extents
}

// declarationExtent scans forward from the attribute at index attr. The
// declaration ends with the '}' matching its body, or for a body-less
// declaration at a ';', at the '}' closing the enclosing scope, or at a
// newline once the keyword was seen and the next line does not continue the
// header.
func declarationExtent(tokens []swiftparse.Token, attr int) extent {
	ext := extent{origin: tokens[attr].Pos, start: tokens[attr].Pos.Offset}
	depth := 0
	sawKeyword := false
	lastEnd := tokens[attr].End()

	for i := attr + 1; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Kind == swiftparse.EOF:
			ext.end, ext.insertAt = lastEnd, lastEnd
			return ext
		case tok.Kind == swiftparse.Newline:
			if depth == 0 && sawKeyword && !continues(tokens, i+1) {
				ext.end, ext.insertAt = lastEnd, lastEnd
				return ext
			}
			continue
		case tok.Trivia():
			continue
		case tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		case tok.Is("{") && depth == 0:
			closing, err := swiftparse.MatchBrace(tokens, i)
			if err != nil {
				// unbalanced; let the parser report it
				last := tokens[len(tokens)-1].Pos.Offset
				ext.end, ext.insertAt = last, last
				return ext
			}
			ext.end = tokens[closing].End()
			ext.insertAt = ext.end
			return ext
		case tok.Is("}") && depth == 0:
			ext.end, ext.insertAt = lastEnd, lastEnd
			return ext
		case tok.Is(";") && depth == 0:
			ext.end, ext.insertAt = lastEnd, tok.End()
			return ext
		case tok.Kind == swiftparse.Ident && declKeywords[tok.Value]:
			sawKeyword = true
		}
		lastEnd = tok.End()
	}

	ext.end, ext.insertAt = lastEnd, lastEnd
	return ext
}

// continues reports whether the first significant token from index from
// continues a declaration header
func continues(tokens []swiftparse.Token, from int) bool {
	for i := from; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Trivia() {
			continue
		}
		return continuations[tok.Value] && tok.Kind != swiftparse.String
	}
	return false
}

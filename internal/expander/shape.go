package expander

import "github.com/toyz/addasync/internal/syntax"

// HasBody reports whether the declaration is an implementation rather than a requirement
func HasBody(fn *syntax.FunctionDecl) bool {
	return fn.Body != nil
}

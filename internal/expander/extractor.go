package expander

import (
	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/syntax"
)

// ExtractSignature pulls the parts of a function declaration the later stages need
func ExtractSignature(decl syntax.Decl) (*FunctionSignature, error) {
	fn, ok := decl.(*syntax.FunctionDecl)
	if !ok || fn == nil {
		keyword := ""
		if decl != nil {
			keyword = decl.DeclKeyword()
		}
		return nil, errors.NotAFunction(keyword)
	}

	params := make([]syntax.Parameter, len(fn.Params))
	copy(params, fn.Params)
	modifiers := make([]syntax.Modifier, len(fn.Modifiers))
	copy(modifiers, fn.Modifiers)

	return &FunctionSignature{
		Name:      fn.Name,
		Modifiers: modifiers,
		Generics:  fn.Generics,
		Where:     fn.Where,
		Params:    params,
		HasBody:   HasBody(fn),
	}, nil
}

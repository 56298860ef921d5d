package expander

import (
	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/syntax"
)

const resultTypeName = "Result"

// ClassifyHandler inspects the last parameter and classifies its single argument.
// name is only used to annotate failures.
func ClassifyHandler(name string, params []syntax.Parameter) (HandlerShape, error) {
	if len(params) == 0 {
		return nil, errors.MissingParameters(name)
	}

	handler := params[len(params)-1]
	fnType := callableType(handler.Type)
	if fnType == nil {
		return nil, errors.NotAClosure(name, typeString(handler.Type))
	}
	if len(fnType.Params) != 1 {
		return nil, errors.ClosureArity(name, len(fnType.Params))
	}

	return classifyArgument(fnType.Params[0].Type), nil
}

// callableType unwraps attributes and single-element grouping down to a function type
func callableType(t syntax.TypeSyntax) *syntax.FunctionType {
	switch typ := t.(type) {
	case *syntax.FunctionType:
		return typ
	case *syntax.AttributedType:
		return callableType(typ.Base)
	case *syntax.TupleType:
		if len(typ.Elements) == 1 && typ.Elements[0].Label == "" {
			return callableType(typ.Elements[0].Type)
		}
	}
	return nil
}

func classifyArgument(arg syntax.TypeSyntax) HandlerShape {
	if id, ok := arg.(*syntax.IdentifierType); ok && id.Name == resultTypeName && len(id.GenericArgs) > 0 {
		return ResultLike{Success: id.GenericArgs[0]}
	}
	return PlainValue{Type: arg}
}

func typeString(t syntax.TypeSyntax) string {
	if t == nil {
		return ""
	}
	return t.String()
}

package errors

// Messages surfaced verbatim as diagnostics by the host.
const (
	NotAFunctionMessage      = "@AddAsync only works on functions."
	MissingParametersMessage = "Function must have parameters."
	NotAClosureMessage       = "Last parameter must be a closure."
	ClosureArityMessage      = "Completion closure must take exactly one argument."
)

// ExpansionError aborts the expansion of a single declaration.
type ExpansionError struct {
	*BaseError
	Declaration string // name of the declaration, when known
}

func newExpansionError(code ErrorCode, message, declaration string, hints ...string) *ExpansionError {
	base := New(code, message)
	base.Hints = append(base.Hints, hints...)
	if declaration != "" {
		base.WithContext("declaration", declaration)
	}
	return &ExpansionError{BaseError: base, Declaration: declaration}
}

// NotAFunction reports an attribute attached to something other than a function.
func NotAFunction(keyword string) *ExpansionError {
	err := newExpansionError(NotAFunctionCode, NotAFunctionMessage, "",
		"Attach the attribute to a 'func' declaration")
	if keyword != "" {
		err.WithContext("keyword", keyword)
	}
	return err
}

// MissingParameters reports a function without any parameter.
func MissingParameters(name string) *ExpansionError {
	return newExpansionError(MissingParametersCode, MissingParametersMessage, name,
		"Add a completion handler as the last parameter")
}

// NotAClosure reports a last parameter whose type is not callable.
func NotAClosure(name, typ string) *ExpansionError {
	err := newExpansionError(NotAClosureCode, NotAClosureMessage, name,
		"Declare the completion handler as the last parameter, e.g. completion: @escaping (Result<T, Error>) -> Void")
	err.WithContext("type", typ)
	return err
}

// ClosureArity reports a completion handler that does not take exactly one argument.
func ClosureArity(name string, arity int) *ExpansionError {
	err := newExpansionError(ClosureArityCode, ClosureArityMessage, name,
		"Wrap multiple values in a tuple, struct or Result")
	err.WithContext("arity", arity)
	return err
}

// WithLocation attaches a source location and keeps the concrete type.
func (e *ExpansionError) WithLocation(loc SourceLocation) *ExpansionError {
	e.BaseError.WithLocation(loc)
	return e
}

// Kind returns the expansion failure kind.
func (e *ExpansionError) Kind() ErrorCode {
	return e.Code
}

package expander

import (
	"fmt"
	"slices"
	"strings"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/syntax"
	"github.com/toyz/addasync/internal/templates"
)

// GuardStyle selects how the generated body suppresses repeated handler calls
type GuardStyle string

const (
	// GuardFlag uses a plain Bool captured by the handler closure
	GuardFlag GuardStyle = "flag"
	// GuardLock uses an OSAllocatedUnfairLock check-and-set
	GuardLock GuardStyle = "lock"
)

// Identifiers introduced by the generated body
const (
	continuationName = "continuation"
	guardName        = "resumed"
	resultParamName  = "result"
	valueParamName   = "value"
)

// Emitter builds the generated declaration from a signature and a handler shape
type Emitter struct {
	renderer *templates.Renderer
	guard    GuardStyle
}

// NewEmitter creates an emitter rendering bodies with the given renderer
func NewEmitter(renderer *templates.Renderer, guard GuardStyle) *Emitter {
	if guard == "" {
		guard = GuardFlag
	}
	return &Emitter{renderer: renderer, guard: guard}
}

// Emit produces the peer declaration
func (e *Emitter) Emit(sig *FunctionSignature, shape HandlerShape) (*GeneratedDeclaration, error) {
	if len(sig.Params) == 0 {
		return nil, errors.MissingParameters(sig.Name)
	}
	kept := make([]syntax.Parameter, len(sig.Params)-1)
	copy(kept, sig.Params[:len(sig.Params)-1])
	if sig.HasBody {
		bindUnnamed(kept)
	}

	decl := &syntax.FunctionDecl{
		Modifiers:  sig.Modifiers,
		Name:       sig.Name,
		Generics:   sig.Generics,
		Params:     kept,
		Async:      true,
		ReturnType: shape.ReturnType(),
		Where:      sig.Where,
	}
	if shape.Throws() {
		decl.Throws = "throws"
	}

	if sig.HasBody {
		body, err := e.body(sig.Name, kept, shape)
		if err != nil {
			return nil, err
		}
		decl.Body = &syntax.CodeBlock{Text: body}
	}

	return &GeneratedDeclaration{Decl: decl, Shape: shape}, nil
}

func (e *Emitter) body(name string, params []syntax.Parameter, shape HandlerShape) (string, error) {
	taken := make(map[string]bool, len(params)+1)
	taken[name] = true
	for _, p := range params {
		taken[p.Binding()] = true
	}

	param := valueParamName
	if shape.Throws() {
		param = resultParamName
	}

	data := templates.BodyData{
		Throwing:     shape.Throws(),
		FuncName:     name,
		CallArgs:     ForwardingArguments(params),
		Continuation: fresh(continuationName, taken),
		Guard:        fresh(guardName, taken),
		Param:        fresh(param, taken),
	}

	tmpl := templates.FlagGuardBody
	if e.guard == GuardLock {
		tmpl = templates.LockGuardBody
	}
	return e.renderer.Render(tmpl, data)
}

// ForwardingArguments renders the call arguments passing every parameter by its
// label. inout parameters are passed with &.
func ForwardingArguments(params []syntax.Parameter) string {
	args := make([]string, len(params))
	for i, p := range params {
		arg := p.Binding()
		if isInout(p.Type) {
			arg = "&" + arg
		}
		if label := p.Label(); label != "" {
			arg = label + ": " + arg
		}
		args[i] = arg
	}
	return strings.Join(args, ", ")
}

// bindUnnamed names every parameter bound to _ so the body can forward it
func bindUnnamed(params []syntax.Parameter) {
	taken := make(map[string]bool, len(params))
	for _, p := range params {
		taken[p.Binding()] = true
	}
	for i := range params {
		if params[i].Binding() == "_" {
			params[i].SecondName = fresh(fmt.Sprintf("arg%d", i), taken)
		}
	}
}

func isInout(t syntax.TypeSyntax) bool {
	attributed, ok := t.(*syntax.AttributedType)
	return ok && slices.Contains(attributed.Specifiers, "inout")
}

// fresh returns base, or base with trailing underscores when a forwarded binding already uses it
func fresh(base string, taken map[string]bool) string {
	name := base
	for taken[name] {
		name += "_"
	}
	taken[name] = true
	return name
}

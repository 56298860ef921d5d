package expander

import (
	"strings"

	"github.com/toyz/addasync/internal/syntax"
	"github.com/toyz/addasync/internal/templates"
)

// Options configures an Expander
type Options struct {
	Guard  GuardStyle
	Indent string // indent unit for generated bodies, four spaces when empty
}

// Expander runs the full transformation. Safe for concurrent use.
type Expander struct {
	emitter *Emitter
}

// New creates an Expander
func New(opts Options) *Expander {
	indent := opts.Indent
	if indent == "" {
		indent = strings.Repeat(" ", 4)
	}
	return &Expander{
		emitter: NewEmitter(templates.NewRenderer(indent), opts.Guard),
	}
}

// Expand transforms one declaration. Any failure aborts with no partial output.
func (x *Expander) Expand(decl syntax.Decl) (*GeneratedDeclaration, error) {
	sig, err := ExtractSignature(decl)
	if err != nil {
		return nil, err
	}

	shape, err := ClassifyHandler(sig.Name, sig.Params)
	if err != nil {
		return nil, err
	}

	return x.emitter.Emit(sig, shape)
}

// Package rewriter applies the expander to whole Swift source files. It finds
// annotated declarations, expands each one and splices the generated peer
// right after the original.
package rewriter

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/toyz/addasync/internal/config"
	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/expander"
	"github.com/toyz/addasync/internal/swiftparse"
	"github.com/toyz/addasync/internal/syntax"
	"github.com/toyz/addasync/internal/templates"
)

const (
	// DefaultAttribute is the attribute name that marks declarations for expansion
	DefaultAttribute = "AddAsync"

	// BeginMarker and EndMarker delimit a generated region
	BeginMarker = "// addasync:begin"
	EndMarker   = "// addasync:end"

	// lockModule declares OSAllocatedUnfairLock
	lockModule = "os"
)

// Options configures a Rewriter
type Options struct {
	Attribute string
	Markers   bool
	Expander  expander.Options
}

// Diagnostic is a failure attached to one annotated declaration
type Diagnostic struct {
	Code     errors.ErrorCode
	Message  string
	Location errors.SourceLocation
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Location, d.Message)
}

// Expansion describes one generated peer
type Expansion struct {
	Name     string
	Shape    string
	Throws   bool
	Location errors.SourceLocation
}

// Result is the outcome of rewriting one file
type Result struct {
	Source      string
	Expansions  []Expansion
	Diagnostics []Diagnostic
	Changed     bool
}

// HasDiagnostics reports whether any declaration failed to expand
func (r *Result) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

// Rewriter expands annotated declarations in source files. Safe for concurrent use.
type Rewriter struct {
	attribute string
	markers   bool
	guard     expander.GuardStyle
	parser    *swiftparse.Parser
	expander  *expander.Expander
	renderer  *templates.Renderer
}

// New creates a Rewriter
func New(opts Options) *Rewriter {
	attribute := strings.TrimPrefix(opts.Attribute, "@")
	if attribute == "" {
		attribute = DefaultAttribute
	}
	return &Rewriter{
		attribute: attribute,
		markers:   opts.Markers,
		guard:     opts.Expander.Guard,
		parser:    swiftparse.NewParser(),
		expander:  expander.New(opts.Expander),
		renderer:  templates.NewRenderer(opts.Expander.Indent),
	}
}

// NewFromConfig creates a Rewriter from the project configuration
func NewFromConfig(cfg *config.Config) *Rewriter {
	return New(Options{
		Attribute: cfg.Attribute,
		Markers:   cfg.Markers,
		Expander: expander.Options{
			Guard:  expander.GuardStyle(cfg.Guard),
			Indent: cfg.IndentUnit(),
		},
	})
}

// Attribute returns the attribute name the rewriter looks for
func (r *Rewriter) Attribute() string {
	return r.attribute
}

// Rewrite expands every annotated declaration in src. Regions generated by an
// earlier run are removed first, so rewriting its own output is a no-op.
// A declaration that cannot be expanded is reported as a diagnostic and left
// alone. The returned error is reserved for failures affecting the whole file.
func (r *Rewriter) Rewrite(filename, src string) (*Result, error) {
	stripped, err := Strip(src)
	if err != nil {
		return nil, errors.WrapParseError(filename, errors.SourceLocation{File: filename}, err)
	}

	tokens, err := swiftparse.Tokenize(filename, stripped)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	imports := templates.NewImportManager()
	var out strings.Builder
	last := 0

	for _, ext := range findExtents(tokens, r.attribute) {
		text := stripped[ext.start:ext.end]
		generated, diag := r.expand(text, ext.origin)
		if diag != nil {
			result.Diagnostics = append(result.Diagnostics, *diag)
			continue
		}

		peer, err := r.region(generated.Source(), lineIndent(stripped, ext.start))
		if err != nil {
			return nil, err
		}
		if r.markers || !spliced(stripped[ext.insertAt:], peer) {
			out.WriteString(stripped[last:ext.insertAt])
			out.WriteString("\n\n")
			out.WriteString(peer)
			last = ext.insertAt
		}
		if r.guard == expander.GuardLock && generated.Decl.Body != nil {
			imports.AddImport(lockModule)
		}

		result.Expansions = append(result.Expansions, Expansion{
			Name:     generated.Decl.Name,
			Shape:    generated.Shape.String(),
			Throws:   generated.Shape.Throws(),
			Location: location(ext.origin),
		})
	}
	out.WriteString(stripped[last:])

	result.Source = imports.Apply(out.String())
	result.Changed = result.Source != src
	return result, nil
}

// ExpandDeclaration parses and expands a single declaration given as text
func (r *Rewriter) ExpandDeclaration(text string) (*expander.GeneratedDeclaration, error) {
	decl, err := r.parser.ParseDecl(text, syntax.Position{Filename: "<input>", Line: 1, Column: 1})
	if err != nil {
		return nil, err
	}
	return r.expander.Expand(decl)
}

func (r *Rewriter) expand(text string, origin syntax.Position) (*expander.GeneratedDeclaration, *Diagnostic) {
	decl, err := r.parser.ParseDecl(text, origin)
	if err == nil {
		var generated *expander.GeneratedDeclaration
		generated, err = r.expander.Expand(decl)
		if err == nil {
			return generated, nil
		}
	}
	return nil, diagnostic(err, location(origin))
}

func (r *Rewriter) region(declaration, indent string) (string, error) {
	body := templates.Reindent(declaration, indent)
	if !r.markers {
		return body, nil
	}
	return r.renderer.Render(templates.PeerRegion, templates.RegionData{
		Indent:      indent,
		Begin:       BeginMarker,
		End:         EndMarker,
		Declaration: body,
	})
}

func diagnostic(err error, loc errors.SourceLocation) *Diagnostic {
	diag := &Diagnostic{Code: errors.UnknownErrorCode, Message: err.Error(), Location: loc}

	var expErr *errors.ExpansionError
	var synErr *errors.SyntaxError
	switch {
	case stderrors.As(err, &expErr):
		diag.Code = expErr.Kind()
		diag.Message = expErr.Message
	case stderrors.As(err, &synErr):
		diag.Code = synErr.ErrorCode()
		diag.Message = synErr.Message
		if !synErr.Loc.IsEmpty() {
			diag.Location = synErr.Loc
		}
	}
	return diag
}

func location(pos syntax.Position) errors.SourceLocation {
	return errors.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// spliced reports whether rest already opens with peer. Without markers an
// earlier run's output cannot be stripped, so the peer is recognized instead.
func spliced(rest, peer string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n"), strings.TrimLeft(peer, " \t"))
}

// lineIndent returns the leading whitespace of the line containing offset
func lineIndent(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

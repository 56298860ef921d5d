// Package templates renders the Swift snippets spliced into expanded sources.
package templates

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"github.com/toyz/addasync/internal/errors"
)

// BodyData feeds the continuation body templates
type BodyData struct {
	Throwing     bool
	FuncName     string
	CallArgs     string
	Continuation string
	Guard        string
	Param        string
}

// Await returns the suspension expression for the handler shape
func (d BodyData) Await() string {
	if d.Throwing {
		return "try await withCheckedThrowingContinuation"
	}
	return "await withCheckedContinuation"
}

// ResumeLabel returns the continuation resume label for the handler shape
func (d BodyData) ResumeLabel() string {
	if d.Throwing {
		return "with"
	}
	return "returning"
}

// RegionData feeds the peer region template
type RegionData struct {
	Indent      string
	Begin       string
	End         string
	Declaration string
}

// Renderer executes registry templates with a fixed indent unit. Safe for concurrent use.
type Renderer struct {
	registry *TemplateRegistry
	unit     string

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewRenderer creates a renderer indenting with the given unit, e.g. four spaces
func NewRenderer(unit string) *Renderer {
	return &Renderer{
		registry: NewTemplateRegistry(),
		unit:     unit,
		parsed:   make(map[string]*template.Template),
	}
}

// Unit returns the indent unit
func (r *Renderer) Unit() string {
	return r.unit
}

// Render executes the named template
func (r *Renderer) Render(name string, data interface{}) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.parsed[name]; ok {
		return tmpl, nil
	}

	text, ok := r.registry.Get(name)
	if !ok {
		return nil, errors.WrapTemplateError(name, "find", errors.New(errors.TemplateErrorCode, "template not registered"))
	}

	funcMap := template.FuncMap{
		"ind": func(n int) string { return strings.Repeat(r.unit, n) },
	}
	tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, errors.WrapTemplateError(name, "parse", err)
	}
	r.parsed[name] = tmpl
	return tmpl, nil
}

// Reindent prefixes every non-empty line of text with prefix
func Reindent(text, prefix string) string {
	if prefix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

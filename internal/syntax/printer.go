package syntax

import "strings"

// Print renders a declaration as Swift source. Absent clauses leave no whitespace behind.
func Print(d Decl) string {
	fn, ok := d.(*FunctionDecl)
	if !ok {
		return d.DeclKeyword()
	}
	var b strings.Builder
	b.WriteString(Signature(fn))
	if fn.Body != nil {
		b.WriteString(" ")
		b.WriteString(fn.Body.Text)
	}
	return b.String()
}

// Signature renders everything up to, but not including, the body.
func Signature(fn *FunctionDecl) string {
	var b strings.Builder
	for _, attr := range fn.Attributes {
		b.WriteString(attr.String())
		b.WriteString(" ")
	}
	for _, mod := range fn.Modifiers {
		b.WriteString(mod.String())
		b.WriteString(" ")
	}
	b.WriteString("func ")
	b.WriteString(fn.Name)
	if fn.Generics != nil && len(fn.Generics.Params) > 0 {
		b.WriteString(fn.Generics.String())
	}
	b.WriteString("(")
	b.WriteString(JoinParameters(fn.Params))
	b.WriteString(")")
	if fn.Async {
		b.WriteString(" async")
	}
	if fn.Throws != "" {
		b.WriteString(" ")
		b.WriteString(fn.Throws)
	}
	if fn.ReturnType != nil {
		b.WriteString(" -> ")
		b.WriteString(fn.ReturnType.String())
	}
	if fn.Where != nil && len(fn.Where.Requirements) > 0 {
		b.WriteString(" ")
		b.WriteString(fn.Where.String())
	}
	return b.String()
}

// JoinParameters renders a parameter list with no trailing separator
func JoinParameters(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

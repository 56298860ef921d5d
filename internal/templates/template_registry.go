package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// Template names
const (
	FlagGuardBody = "flag-guard-body"
	LockGuardBody = "lock-guard-body"
	PeerRegion    = "peer-region"
)

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerBodyTemplates()
	registry.registerRegionTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns every registered template name
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

// registerBodyTemplates registers the bodies bridging a completion handler into a continuation.
// Indentation is relative to the declaration; {{ind N}} expands to N indent units.
func (tr *TemplateRegistry) registerBodyTemplates() {
	// Plain flag guard: single logical call path
	tr.templates[FlagGuardBody] = `{
{{ind 1}}return {{.Await}} { {{.Continuation}} in
{{ind 2}}var {{.Guard}} = false
{{ind 2}}{{.FuncName}}({{.CallArgs}}) { {{.Param}} in
{{ind 3}}guard !{{.Guard}} else { return }
{{ind 3}}{{.Guard}} = true
{{ind 3}}{{.Continuation}}.resume({{.ResumeLabel}}: {{.Param}})
{{ind 2}}}
{{ind 1}}}
}`

	// Lock guard: atomic check-and-set for callbacks delivered from several threads
	tr.templates[LockGuardBody] = `{
{{ind 1}}return {{.Await}} { {{.Continuation}} in
{{ind 2}}let {{.Guard}} = OSAllocatedUnfairLock(initialState: false)
{{ind 2}}{{.FuncName}}({{.CallArgs}}) { {{.Param}} in
{{ind 3}}let first = {{.Guard}}.withLock { (done: inout Bool) -> Bool in
{{ind 4}}defer { done = true }
{{ind 4}}return !done
{{ind 3}}}
{{ind 3}}guard first else { return }
{{ind 3}}{{.Continuation}}.resume({{.ResumeLabel}}: {{.Param}})
{{ind 2}}}
{{ind 1}}}
}`
}

// registerRegionTemplates registers the markers wrapping a spliced peer declaration
func (tr *TemplateRegistry) registerRegionTemplates() {
	tr.templates[PeerRegion] = `{{.Indent}}{{.Begin}}
{{.Declaration}}
{{.Indent}}{{.End}}`
}

package templates

import (
	"regexp"
	"sort"
	"strings"
)

// importLine matches a top-level Swift import, e.g. "import os",
// "@testable import App" or "import struct Foundation.Date"
var importLine = regexp.MustCompile(`^(?:@\w+\s+)*import\s+(?:(?:typealias|struct|class|enum|protocol|let|var|func)\s+)?([A-Za-z_][A-Za-z0-9_]*)`)

// ImportManager collects the modules generated code depends on and adds the
// missing ones to a source file
type ImportManager struct {
	modules map[string]bool
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{modules: make(map[string]bool)}
}

// AddImport records a required module
func (im *ImportManager) AddImport(module string) {
	if module != "" {
		im.modules[module] = true
	}
}

// Modules returns the required modules, sorted
func (im *ImportManager) Modules() []string {
	modules := make([]string, 0, len(im.modules))
	for module := range im.modules {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// Missing returns the required modules src does not import yet
func (im *ImportManager) Missing(src string) []string {
	present := ImportedModules(src)
	var missing []string
	for _, module := range im.Modules() {
		if !present[module] {
			missing = append(missing, module)
		}
	}
	return missing
}

// Apply inserts an import for every missing module after the last existing
// import, or at the top of the file when there is none
func (im *ImportManager) Apply(src string) string {
	missing := im.Missing(src)
	if len(missing) == 0 {
		return src
	}

	var block strings.Builder
	for _, module := range missing {
		block.WriteString("import " + module + "\n")
	}

	offset, found := afterLastImport(src)
	if !found {
		return block.String() + "\n" + src
	}
	if offset == len(src) && !strings.HasSuffix(src, "\n") {
		return src + "\n" + block.String()
	}
	return src[:offset] + block.String() + src[offset:]
}

// ImportedModules returns the top-level module of every import in src
func ImportedModules(src string) map[string]bool {
	modules := make(map[string]bool)
	for _, line := range strings.Split(src, "\n") {
		if m := importLine.FindStringSubmatch(line); m != nil {
			modules[m[1]] = true
		}
	}
	return modules
}

// afterLastImport returns the offset just past the line of the last import
func afterLastImport(src string) (int, bool) {
	offset, last := 0, -1
	for _, line := range strings.SplitAfter(src, "\n") {
		if importLine.MatchString(line) {
			last = offset + len(line)
		}
		offset += len(line)
	}
	return last, last >= 0
}

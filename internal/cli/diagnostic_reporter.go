package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/rewriter"
	"github.com/toyz/addasync/internal/utils"
)

// DiagnosticReporter turns generator results into user-facing output
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	verbose     bool
}

// NewDiagnosticReporter creates a reporter writing through the given diagnostic system
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, verbose bool) *DiagnosticReporter {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		verbose:     verbose,
	}
}

// Diagnostics returns the underlying diagnostic system
func (r *DiagnosticReporter) Diagnostics() *utils.DiagnosticSystem {
	return r.diagnostics
}

// ReportResult prints a file's declaration diagnostics, compiler style
func (r *DiagnosticReporter) ReportResult(path string, result *rewriter.Result) {
	for _, diag := range result.Diagnostics {
		r.diagnostics.SourceDiagnostic(diag.Location.String(), diag.Message)
		r.diagnostics.Debug("%s: code %s", path, diag.Code)
	}
	for _, exp := range result.Expansions {
		r.diagnostics.Verbose("%s: expanded %s (%s)", exp.Location, exp.Name, exp.Shape)
	}
}

// ReportError prints an error with its location and suggestions when available
func (r *DiagnosticReporter) ReportError(err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			r.ReportError(e)
		}
		return
	}

	var rich errors.AddAsyncError
	if !stderrors.As(err, &rich) {
		r.diagnostics.Error("%v", err)
		return
	}

	r.diagnostics.Error("%v", err)
	r.diagnostics.Indent()
	for _, hint := range rich.Suggestions() {
		r.diagnostics.List("%s", hint)
	}
	if r.verbose {
		for key, value := range rich.Context() {
			r.diagnostics.Debug("%s: %v", key, value)
		}
	}
	r.diagnostics.Unindent()
}

// ReportSummary prints the run statistics
func (r *DiagnosticReporter) ReportSummary(summary GenerationSummary, mode Mode) {
	stats := map[string]interface{}{
		"Files scanned":      summary.FilesScanned,
		"Files changed":      summary.FilesChanged,
		"Declarations":       summary.Expansions,
		"Diagnostics":        summary.Diagnostics,
		"Files with failure": summary.Failures,
	}
	title := "Expansion complete"
	if mode == ModeCheck {
		title = "Check complete"
	}
	r.diagnostics.Summary(title, stats)

	if r.verbose && len(summary.ChangedFiles) > 0 {
		r.diagnostics.Subsection("Changed files")
		for _, file := range summary.ChangedFiles {
			r.diagnostics.List("%s", file)
		}
	}
}

// GenerationSummary contains summary information about a run
type GenerationSummary struct {
	FilesScanned int
	FilesChanged int
	Expansions   int
	Diagnostics  int
	Failures     int
	ChangedFiles []string
}

func (s GenerationSummary) String() string {
	return fmt.Sprintf("%d scanned, %d changed, %d expanded, %d diagnostics, %d failed",
		s.FilesScanned, s.FilesChanged, s.Expansions, s.Diagnostics, s.Failures)
}

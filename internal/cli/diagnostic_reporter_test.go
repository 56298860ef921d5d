package cli

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/rewriter"
	"github.com/toyz/addasync/internal/utils"
)

func newTestReporter(level utils.DiagnosticLevel, verbose bool) (*DiagnosticReporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := utils.NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return NewDiagnosticReporter(d, verbose), &out, &errOut
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		reporter, out, errOut := newTestReporter(utils.DiagnosticInfo, false)
		reporter.ReportError(stderrors.New("boom"))

		assert.Equal(t, "[ERROR] boom\n", errOut.String())
		assert.Empty(t, out.String())
	})

	t.Run("suggestions are listed", func(t *testing.T) {
		reporter, out, errOut := newTestReporter(utils.DiagnosticInfo, false)
		reporter.ReportError(errors.ConfigurationError("unknown guard %q", "mutex").
			WithSuggestion("use flag or lock"))

		assert.Equal(t, "[ERROR] unknown guard \"mutex\"\n", errOut.String())
		assert.Equal(t, "  - use flag or lock\n", out.String())
	})

	t.Run("multiple errors are reported one by one", func(t *testing.T) {
		reporter, _, errOut := newTestReporter(utils.DiagnosticInfo, false)
		multi := errors.NewMultipleErrors()
		multi.Add(errors.ConfigurationError("first"))
		multi.Add(errors.ConfigurationError("second"))
		reporter.ReportError(multi)

		assert.Equal(t, "[ERROR] first\n[ERROR] second\n", errOut.String())
	})

	t.Run("context only when verbose", func(t *testing.T) {
		err := errors.ConfigurationError("bad").WithContext("key", "attribute")

		reporter, out, _ := newTestReporter(utils.DiagnosticDebug, true)
		reporter.ReportError(err)
		assert.Contains(t, out.String(), "[DEBUG] key: attribute")

		reporter, out, _ = newTestReporter(utils.DiagnosticDebug, false)
		reporter.ReportError(err)
		assert.NotContains(t, out.String(), "key: attribute")
	})
}

func TestDiagnosticReporter_ReportResult(t *testing.T) {
	reporter, out, errOut := newTestReporter(utils.DiagnosticVerbose, true)
	reporter.ReportResult("API.swift", &rewriter.Result{
		Expansions: []rewriter.Expansion{{
			Name:     "fetch",
			Shape:    "result",
			Location: errors.SourceLocation{File: "API.swift", Line: 2, Column: 5},
		}},
		Diagnostics: []rewriter.Diagnostic{{
			Code:     errors.NotAClosureCode,
			Message:  errors.NotAClosureMessage,
			Location: errors.SourceLocation{File: "API.swift", Line: 9, Column: 5},
		}},
	})

	assert.Equal(t, "API.swift:9:5: error: "+errors.NotAClosureMessage+"\n", errOut.String())
	assert.Equal(t, "[VERBOSE] API.swift:2:5: expanded fetch (result)\n", out.String())
}

func TestDiagnosticReporter_ReportSummary(t *testing.T) {
	reporter, out, _ := newTestReporter(utils.DiagnosticInfo, true)
	reporter.ReportSummary(GenerationSummary{
		FilesScanned: 3,
		FilesChanged: 1,
		Expansions:   2,
		ChangedFiles: []string{"API.swift"},
	}, ModeCheck)

	output := out.String()
	assert.Contains(t, output, "\nCheck complete\n")
	assert.Contains(t, output, "   Files scanned: 3\n")
	assert.Contains(t, output, "   Declarations: 2\n")
	assert.Contains(t, output, "\nChanged files:\n- API.swift\n")
}

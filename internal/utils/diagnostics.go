package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output for the CLI.
// Methods may be called from several goroutines.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
	mu        sync.Mutex
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects regular and error output, mainly for tests
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output = out
	d.errorOut = errOut
}

// SetColors overrides terminal color detection
func (d *DiagnosticSystem) SetColors(enabled bool) {
	d.useColors = enabled
}

// SetShowTime toggles timestamps on leveled messages
func (d *DiagnosticSystem) SetShowTime(enabled bool) {
	d.showTime = enabled
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// SourceDiagnostic reports a problem at a position in a source file, compiler style
func (d *DiagnosticSystem) SourceDiagnostic(location, message string) {
	if d.level < DiagnosticError {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.errorOut, "%s%s: %s %s\n",
		d.getIndent(), d.paint(color.Bold, location), d.paint(color.FgRed, "error:"), message)
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintf(d.output, "%s\n", d.paint(color.Bold, title))
	}
}

// Subsection creates a subsection header
func (d *DiagnosticSystem) Subsection(title string) {
	if d.level >= DiagnosticInfo {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintf(d.output, "\n%s:\n", title)
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// FileChanged outputs a line for a rewritten file
func (d *DiagnosticSystem) FileChanged(path string, expansions int) {
	if d.level >= DiagnosticInfo {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintf(d.output, "%s%s %s (%d expanded)\n", d.getIndent(), d.paint(color.FgMagenta, "✏"), path, expansions)
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.mu.Lock()
	d.indent++
	d.mu.Unlock()
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	d.mu.Lock()
	if d.indent > 0 {
		d.indent--
	}
	d.mu.Unlock()
}

// Summary outputs a final summary with statistics, keys sorted
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.output, "\n%s\n", d.paint(color.FgCyan, title))
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
}

// Header outputs the tool banner
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintln(d.output, d.paint(color.FgCyan, "addasync: "+message))
	}
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	var output strings.Builder
	output.WriteString(d.getIndent())
	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}
	output.WriteString(d.paint(attr, "["+level+"]"))
	output.WriteString(" ")
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) paint(attr color.Attribute, text string) string {
	if !d.useColors {
		return text
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(text)
}

func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

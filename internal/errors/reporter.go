package errors

import (
	"fmt"
	"strings"

	"flint/internal/ast"

	"github.com/fatih/color"
)

// Severity represents how serious a diagnostic is
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Note    Severity = "note"
)

// Diagnostic is a source level finding of the verifier. Location is optional: an
// invalid position means the diagnostic is not tied to any source.
type Diagnostic struct {
	Severity Severity
	Code     string
	Location ast.Position
	Message  string
	Length   int
	Notes    []Diagnostic
}

func (d Diagnostic) String() string {
	if d.Location.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Reporter renders diagnostics with source snippets in a Rust-like style
type Reporter struct {
	sources map[string][]string
}

// NewReporter creates a reporter with no known sources
func NewReporter() *Reporter {
	return &Reporter{sources: make(map[string][]string)}
}

// AddSource registers the text of a file so its lines can be quoted
func (r *Reporter) AddSource(filename, source string) {
	r.sources[filename] = strings.Split(source, "\n")
}

// Format renders a diagnostic and its notes
func (r *Reporter) Format(d Diagnostic) string {
	var result strings.Builder
	r.format(&result, d, 0)
	result.WriteString("\n")
	return result.String()
}

// FormatAll renders diagnostics in order, errors and warnings alike
func (r *Reporter) FormatAll(diagnostics []Diagnostic) string {
	var result strings.Builder
	for _, d := range diagnostics {
		result.WriteString(r.Format(d))
	}
	return result.String()
}

func (r *Reporter) format(result *strings.Builder, d Diagnostic, depth int) {
	levelColor := getLevelColor(d.Severity)
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	prefix := strings.Repeat("  ", depth)

	// Header: error[V0001]: message
	message := strings.TrimRight(d.Message, "\n")
	if d.Code != "" {
		result.WriteString(fmt.Sprintf("%s%s[%s]: %s\n", prefix, levelColor(string(d.Severity)), d.Code, message))
	} else {
		result.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, levelColor(string(d.Severity)), message))
	}

	if !d.Location.IsValid() {
		for _, note := range d.Notes {
			r.format(result, note, depth+1)
		}
		return
	}

	lineNumberWidth := getLineNumberWidth(d.Location.Line)
	indent := prefix + strings.Repeat(" ", lineNumberWidth)

	// Location line: --> filename:line:column
	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), d.Location.Filename, d.Location.Line, d.Location.Column))

	lines := r.sources[d.Location.Filename]
	if d.Location.Line > 0 && d.Location.Line <= len(lines) {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		result.WriteString(fmt.Sprintf("%s%s %s %s\n",
			prefix,
			bold(fmt.Sprintf("%*d", lineNumberWidth, d.Location.Line)),
			dim("│"),
			lines[d.Location.Line-1]))
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			indent, dim("│"), createMarker(d.Location.Column, d.Length, d.Severity)))
	}

	for _, note := range d.Notes {
		r.format(result, note, depth+1)
	}
}

// getLevelColor returns the appropriate color function for a severity
func getLevelColor(level Severity) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for a diagnostic
func createMarker(column, length int, level Severity) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + getLevelColor(level)(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}

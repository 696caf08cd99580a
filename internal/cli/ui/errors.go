package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders a headline with optional suggestions and help commands:
//
//	✗ UNKNOWN FUNCTION: sumSeris
//
//	   Did you mean: sumSeries, sumSeriesWithWildcards?
//
//	   → List functions: graphite-graph functions
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var attr color.Attribute
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		attr, symbol = color.FgYellow, "!"
	case ErrorLevelInfo:
		attr, symbol = color.FgCyan, "i"
	default:
		attr, symbol = color.FgRed, "✗"
	}

	header := newColor(opts.NoColor, attr, color.Bold)
	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		newColor(opts.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		help := newColor(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			help.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	return newColor(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// UnknownFunctionError reports a function name missing from the catalog
func UnknownFunctionError(name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "unknown function",
		Problem:     name,
		Suggestions: suggestions,
		HelpCommands: []string{
			"List functions: graphite-graph functions",
		},
		NoColor: noColor,
	})
}

// CompileFailed reports that a definition file did not compile
func CompileFailed(file string, count int, noColor bool) string {
	problem := fmt.Sprintf("%s has %d error", file, count)
	if count != 1 {
		problem += "s"
	}
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "compile failed",
		Problem: problem,
		HelpCommands: []string{
			"Check function names: graphite-graph functions",
			"Get help: graphite-graph compile --help",
		},
		NoColor: noColor,
	})
}

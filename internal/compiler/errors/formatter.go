package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	codeColor   = color.New(color.FgRed, color.Bold)
	gutterColor = color.New(color.Faint)
	markColor   = color.New(color.FgRed)
	hintColor   = color.New(color.FgCyan)
)

// FormatError renders e for the terminal: a header naming the code and
// position, the message, the surrounding definition lines and any hints.
// Colour follows color.NoColor.
func FormatError(e *CompilerError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s in %s\n",
		codeColor.Sprintf("%s %s", severitySymbol(e.Severity), e.Code),
		categoryDisplayName(e.Category), position(e))
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Context != nil {
		writeSourceLines(&b, e)
	}

	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", hintColor.Sprint("hint:"), e.Suggestion)
	}
	if len(e.Examples) > 0 {
		b.WriteString("  try:\n")
		for _, example := range e.Examples {
			fmt.Fprintf(&b, "    %s\n", example)
		}
	}

	if e.Documentation != "" {
		fmt.Fprintf(&b, "\n  see %s\n", e.Documentation)
	}

	return b.String()
}

// writeSourceLines prints the context snippet with line numbers. The snippet
// is centred on the error line; lines before the start of the file are
// skipped.
func writeSourceLines(b *strings.Builder, e *CompilerError) {
	lines := e.Context.SourceLines
	if len(lines) == 0 || e.Location.IsZero() {
		return
	}

	center := len(lines) / 2
	first := e.Location.Line - center
	b.WriteString("\n")
	for i, line := range lines {
		n := first + i
		if n < 1 {
			continue
		}
		marker := " "
		if i == center {
			marker = markColor.Sprint(">")
		}
		fmt.Fprintf(b, "  %s %s %s\n", marker, gutterColor.Sprintf("%4d |", n), line)
	}
}

// FormatErrorList renders every error in the list under a count header
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder
	errCount, warnCount, _ := errors.ErrorCount()
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", errCount, warnCount)
	for _, err := range errors {
		b.WriteString("\n")
		b.WriteString(err.Format())
	}
	return b.String()
}

// FormatCompact returns a one-line form in the file:line:col style editors parse
func FormatCompact(e *CompilerError) string {
	return fmt.Sprintf("%s: %s: %s [%s]", position(e), e.Severity, e.Message, e.Code)
}

// position returns file, or file:line:col when the location is known
func position(e *CompilerError) string {
	file := e.File
	if file == "" {
		file = "<source>"
	}
	if e.Location.IsZero() {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, e.Location.Line, e.Location.Column)
}

func severitySymbol(severity ErrorSeverity) string {
	switch severity {
	case SeverityWarning:
		return "!"
	case SeverityInfo:
		return "i"
	default:
		return "✗"
	}
}

func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryConfiguration:
		return "Configuration Error"
	case CategoryDefinition:
		return "Definition Error"
	case CategoryCodeGen:
		return "Code Generation Error"
	default:
		return "Compiler Error"
	}
}
